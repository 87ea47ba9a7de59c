package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/dispatch"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/in_mem"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	e     *echo.Echo
	store storage.ResultStore
	dir   string
}

func newFixture(t *testing.T, opts ...EvaluationRouterOption) *fixture {
	t.Helper()

	d, err := dispatch.New(dispatch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	store := in_mem.NewInMemStorer()
	NewEvaluationRouter(e, d, store, opts...).Bind()

	dir := t.TempDir()
	write(t, dir, "round1/cea_gt.csv", "T1,0,0,Q42\nT1,1,0,Q7\n")
	write(t, dir, "round1/cta_gt.csv", "T1,0,Q5\n")
	write(t, dir, "perfect.csv", "T1,0,0,Q42\nT1,1,0,Q7\n")
	write(t, dir, "half.csv", "T1,0,0,Q42\n")
	write(t, dir, "dup.csv", "T1,0,0,Q42\nT1,0,0,Q43\n")

	return &fixture{e: e, store: store, dir: dir}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) submit(t *testing.T, task, sub, participant string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"task":%q,"round":1,"ground_truth":%q,"submission":%q,"participant":%q}`,
		task, f.dir, filepath.Join(f.dir, sub), participant)
	return f.do(http.MethodPost, "/evaluations", body)
}

func TestCreateEvaluation(t *testing.T) {
	f := newFixture(t)

	rec := f.submit(t, "CEA", "half.csv", "team-a")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var stored storage.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.Equal(t, "team-a", stored.Participant)
	assert.InDelta(t, 1, stored.Payload.Precision, 1e-9)
	assert.InDelta(t, 0.5, stored.Payload.Recall, 1e-9)

	rec = f.do(http.MethodGet, "/evaluations/"+stored.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched storage.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, stored.ID, fetched.ID)
	assert.InDelta(t, stored.Payload.F1, fetched.Payload.F1, 1e-9)
}

func TestCreateEvaluation_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"task":`, http.StatusBadRequest},
		{"missing task", fmt.Sprintf(`{"ground_truth":%q,"submission":"x.csv"}`, f.dir), http.StatusBadRequest},
		{"unknown task", fmt.Sprintf(`{"task":"CXA","ground_truth":%q,"submission":%q}`, f.dir, filepath.Join(f.dir, "half.csv")), http.StatusBadRequest},
		{"unknown round", fmt.Sprintf(`{"task":"CEA","round":3,"ground_truth":%q,"submission":%q}`, f.dir, filepath.Join(f.dir, "half.csv")), http.StatusBadRequest},
		{"zero round", fmt.Sprintf(`{"task":"CEA","round":0,"ground_truth":%q,"submission":%q}`, f.dir, filepath.Join(f.dir, "half.csv")), http.StatusBadRequest},
		{"duplicate entry", fmt.Sprintf(`{"task":"CEA","ground_truth":%q,"submission":%q}`, f.dir, filepath.Join(f.dir, "dup.csv")), http.StatusUnprocessableEntity},
		{"missing submission file", fmt.Sprintf(`{"task":"CEA","ground_truth":%q,"submission":%q}`, f.dir, filepath.Join(f.dir, "nope.csv")), http.StatusNotFound},
		{"missing ground truth file", fmt.Sprintf(`{"task":"CEA","ground_truth":%q,"submission":%q}`, filepath.Join(f.dir, "nope_gt.csv"), filepath.Join(f.dir, "half.csv")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/evaluations", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func (f *fixture) upload(t *testing.T, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/evaluations/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestUploadEvaluation(t *testing.T) {
	f := newFixture(t)

	rec := f.upload(t,
		map[string]string{"task": "cea", "round": "1", "participant": "team-u"},
		map[string]string{
			"ground_truth": "T1,0,0,Q1\nT1,1,0,Q2\n",
			"submission":   "T1,0,0,Q1\nT1,x,0,Q2\n",
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var stored storage.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "team-u", stored.Participant)
	assert.Equal(t, "upload://submission.csv", stored.Submission)
	assert.InDelta(t, 1, stored.Payload.Precision, 1e-9)
	assert.InDelta(t, 0.5, stored.Payload.Recall, 1e-9)

	rec = f.do(http.MethodGet, "/leaderboard?task=CEA", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "team-u")
}

func TestUploadEvaluation_Errors(t *testing.T) {
	f := newFixture(t)
	both := map[string]string{"ground_truth": "T1,0,0,Q1\n", "submission": "T1,0,0,Q1\n"}

	tests := []struct {
		name   string
		fields map[string]string
		files  map[string]string
		want   int
	}{
		{"missing task", map[string]string{}, both, http.StatusBadRequest},
		{"bad round", map[string]string{"task": "CEA", "round": "x"}, both, http.StatusBadRequest},
		{"zero round", map[string]string{"task": "CEA", "round": "0"}, both, http.StatusBadRequest},
		{"missing submission", map[string]string{"task": "CEA"}, map[string]string{"ground_truth": "T1,0,0,Q1\n"}, http.StatusBadRequest},
		{"duplicate entry", map[string]string{"task": "CEA"}, map[string]string{
			"ground_truth": "T1,0,0,Q1\n",
			"submission":   "T1,0,0,Q1\nT1,0,0,Q2\n",
		}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.upload(t, tt.fields, tt.files)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestGetEvaluation_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/evaluations/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/evaluations/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusCreated, f.submit(t, "CEA", "half.csv", "team-a").Code)
	require.Equal(t, http.StatusCreated, f.submit(t, "CEA", "perfect.csv", "team-b").Code)
	require.Equal(t, http.StatusCreated, f.submit(t, "CEA", "perfect.csv", "team-a").Code)
	require.Equal(t, http.StatusCreated, f.submit(t, "CEA", "half.csv", "team-c").Code)

	rec := f.do(http.MethodGet, "/leaderboard?task=cea&round=1&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var board LeaderboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.Equal(t, "CEA", board.Task)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "team-b", board.Entries[0].Participant)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, "team-a", board.Entries[1].Participant)
	assert.InDelta(t, 1, board.Entries[1].F1, 1e-9)

	t.Run("empty board", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/leaderboard?task=CTA", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"entries":[]`)
	})

	t.Run("bad parameters", func(t *testing.T) {
		for _, q := range []string{"task=CXA", "task=CEA&round=x", "task=CEA&round=0", "task=CEA&limit=-1"} {
			rec := f.do(http.MethodGet, "/leaderboard?"+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestAllowedRoots(t *testing.T) {
	f := newFixture(t, WithAllowedRoots(t.TempDir()))

	rec := f.submit(t, "CEA", "half.csv", "team-a")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "outside the allowed directories")

	f = newFixture(t)
	f2 := newFixture(t, WithAllowedRoots(f.dir))
	f2.dir = f.dir
	assert.Equal(t, http.StatusCreated, f2.submit(t, "CEA", "perfect.csv", "team-a").Code)
}
