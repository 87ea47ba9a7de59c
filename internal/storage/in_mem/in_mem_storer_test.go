package in_mem

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func record(participant string, task annotation.Task, round annotation.Round, p, f1 float64, offset time.Duration) storage.Record {
	return storage.Record{
		Participant: participant,
		Task:        task,
		Round:       round,
		Payload:     metrics.ScorePayload{Task: task, Round: round, Precision: p, F1: f1},
		CreatedAt:   base.Add(offset),
	}
}

func TestInMemStorer_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorer()

	id, err := s.Save(ctx, storage.Record{Participant: "team-a", Task: annotation.CEA, Round: 1})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "team-a", got.Participant)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.Save(ctx, got)
	assert.Error(t, err)

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInMemStorer_Leaderboard(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorer()

	records := []storage.Record{
		record("a", annotation.CEA, 1, 0.8, 0.7, 0),
		record("a", annotation.CEA, 1, 0.9, 0.75, time.Minute),
		record("b", annotation.CEA, 1, 0.9, 0.75, 2*time.Minute),
		record("c", annotation.CEA, 1, 0.95, 0.75, 3*time.Minute),
		record("d", annotation.CEA, 1, 0.5, 0.5, 0),
		record("a", annotation.CEA, 2, 1, 1, 0),
		record("e", annotation.CTA, 1, 1, 1, 0),
	}
	for _, r := range records {
		_, err := s.Save(ctx, r)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		task  annotation.Task
		round annotation.Round
		limit int
		want  []string
	}{
		{"ranked by f1, precision, then time", annotation.CEA, 1, 0, []string{"c", "a", "b", "d"}},
		{"limit applied", annotation.CEA, 1, 2, []string{"c", "a"}},
		{"other round", annotation.CEA, 2, 10, []string{"a"}},
		{"other task", annotation.CTA, 1, 10, []string{"e"}},
		{"empty board", annotation.CPA, 1, 10, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Leaderboard(ctx, tt.task, tt.round, tt.limit)
			require.NoError(t, err)

			names := make([]string, 0, len(got))
			for _, r := range got {
				names = append(names, r.Participant)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	t.Run("best record per participant", func(t *testing.T) {
		got, err := s.Leaderboard(ctx, annotation.CEA, 1, 0)
		require.NoError(t, err)
		assert.InDelta(t, 0.9, got[1].Payload.Precision, 1e-9)
	})
}

func TestInMemStorer_ConcurrentSave(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorer()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(ctx, record("p", annotation.CPA, 1, 0.5, 0.5, 0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Leaderboard(ctx, annotation.CPA, 1, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
