package storage

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/google/uuid"
)

// ResultStore persists evaluation results and ranks them per task and round.
type ResultStore interface {
	Save(ctx context.Context, rec Record) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	Leaderboard(ctx context.Context, task annotation.Task, round annotation.Round, limit int) ([]Record, error)
}

// Record is one stored evaluation.
type Record struct {
	ID          uuid.UUID            `json:"id"`
	Participant string               `json:"participant"`
	Task        annotation.Task      `json:"task"`
	Round       annotation.Round     `json:"round"`
	GroundTruth string               `json:"ground_truth"`
	Submission  string               `json:"submission"`
	Payload     metrics.ScorePayload `json:"payload"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Prepare fills the ID and creation time when unset.
func (r Record) Prepare(now time.Time) Record {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
	return r
}

type Type string

const (
	None  Type = "none"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

const DefaultLeaderboardLimit = 10

var ErrNotFound = apperr.ErrNotFound

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
