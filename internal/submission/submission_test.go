package submission

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	data := `tab_id,row_id,col_id,entity
T1,0,0,http://www.wikidata.org/entity/Q42
T1,1,0,Q3 Q1 Q2
T1,2,0,
`
	sub, err := Read(strings.NewReader(data), annotation.CEA, annotation.DefaultNormalizer())
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Len())

	got, ok := sub.Get(annotation.CellKey("T1", 0, 0))
	require.True(t, ok)
	assert.Equal(t, annotation.Submitted{"q42"}, got)

	got, ok = sub.Get(annotation.CellKey("T1", 1, 0))
	require.True(t, ok)
	assert.Equal(t, annotation.Submitted{"q3", "q1", "q2"}, got)

	got, ok = sub.Get(annotation.CellKey("T1", 2, 0))
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestRead_Duplicate(t *testing.T) {
	data := "T1,0,0,Q42\nT1,0,0,Q43\n"

	_, err := ReadNamed(strings.NewReader(data), "cea.csv", annotation.CEA, annotation.DefaultNormalizer())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDuplicateSubmissionEntry)

	var rec *apperr.RecordError
	require.True(t, errors.As(err, &rec))
	assert.Equal(t, "T1/0/0", rec.Key)
	assert.Equal(t, 2, rec.Line)
	assert.Contains(t, err.Error(), "T1/0/0")
}

func TestRead_SkipsUnparseableKeys(t *testing.T) {
	data := "T1,0,Q5\nT1,zero,Q6\n,1,Q7\nT1\nT1,2,Q8\n"

	sub, err := Read(strings.NewReader(data), annotation.CTA, annotation.DefaultNormalizer())
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Len())

	got, ok := sub.Get(annotation.ColumnKey("T1", 2))
	require.True(t, ok)
	assert.Equal(t, annotation.Submitted{"q8"}, got)

	skipped := sub.Skipped()
	require.Len(t, skipped, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{skipped[0].Line, skipped[1].Line, skipped[2].Line})
	assert.Contains(t, skipped[0].Reason, "zero")
	assert.Contains(t, skipped[1].Reason, "empty table id")
}

func TestRead_UnreadableSource(t *testing.T) {
	_, err := ReadNamed(iotest.ErrReader(errors.New("connection reset")), "sub.csv", annotation.CEA, annotation.DefaultNormalizer())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrMalformedSubmission)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestExtraneous(t *testing.T) {
	data := "T1,0,Q5\nT1,1,Q6\nT2,0,Q7\n"
	sub, err := Read(strings.NewReader(data), annotation.CTA, annotation.DefaultNormalizer())
	require.NoError(t, err)

	known := func(k annotation.Key) bool { return k.Table == "T1" }
	assert.Equal(t, 1, sub.Extraneous(known))
}
