package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(task annotation.Task, p, r, f1 float64) *metrics.ScorePayload {
	return &metrics.ScorePayload{
		Task:      task,
		Round:     1,
		Precision: p,
		Recall:    r,
		F1:        f1,
		Extra:     map[string]float64{metrics.ExtraExtraneous: 2},
		Counts:    metrics.Counts{CorrectWeight: 1, Correct: 1, Incorrect: 1},
	}
}

func sampleEntries() []Entry {
	cta := payload(annotation.CTA, 0.5, 0.25, 1.0/3)
	cta.Extra[metrics.ExtraMacroF1] = 0.41666
	return []Entry{
		{Name: "cea-a", Task: "CEA", Round: 1, Payload: payload(annotation.CEA, 1, 0.5, 2.0/3), Elapsed: 3 * time.Millisecond},
		{Name: "cea-b", Task: "CEA", Round: 1, Payload: payload(annotation.CEA, 0.5, 0.5, 0.5), Elapsed: time.Millisecond},
		{Name: "cea-bad", Task: "CEA", Round: 2, Error: "unknown round 2", Elapsed: 10 * time.Microsecond},
		{Name: "cta-a", Task: "CTA", Round: 1, Payload: cta, Elapsed: 2 * time.Second},
	}
}

func TestNew_Summary(t *testing.T) {
	r := New(sampleEntries())

	require.Len(t, r.Summary, 2)
	cea := r.Summary[0]
	assert.Equal(t, "CEA", cea.Task)
	assert.Equal(t, 3, cea.JobCount)
	assert.Equal(t, 1, cea.ErrorCount)
	assert.InDelta(t, 0.75, cea.Precision, 1e-9)
	assert.InDelta(t, 0.5, cea.Recall, 1e-9)
	assert.InDelta(t, (2.0/3+0.5)/2, cea.F1, 1e-9)

	assert.Equal(t, "CTA", r.Summary[1].Task)
	assert.True(t, r.HasErrors())
	assert.Equal(t, Version, r.Meta.Version)
}

func TestNew_NoErrors(t *testing.T) {
	r := New(sampleEntries()[:2])
	assert.False(t, r.HasErrors())
	assert.Len(t, r.Summary, 1)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(New(sampleEntries()), &buf)
	out := buf.String()

	assert.Contains(t, out, "SemTab Evaluation")
	assert.Contains(t, out, "cea-a")
	assert.Contains(t, out, "0.6667")
	assert.Contains(t, out, "0.4167")
	assert.Contains(t, out, "unknown round 2")
	assert.Contains(t, out, "3.00ms")
	assert.Contains(t, out, "2.00s")
	assert.Contains(t, out, "1/3")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(New(sampleEntries()), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Entries, 4)
	assert.Nil(t, decoded.Entries[2].Payload)
	assert.Equal(t, "unknown round 2", decoded.Entries[2].Error)
	assert.InDelta(t, 0.5, decoded.Entries[1].Payload.F1, 1e-9)
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "-"},
		{500 * time.Microsecond, "500.0µs"},
		{1500 * time.Microsecond, "1.50ms"},
		{1500 * time.Millisecond, "1.50s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, fmtDuration(tt.d))
		})
	}
}
