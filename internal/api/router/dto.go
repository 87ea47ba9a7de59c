package router

import (
	"strings"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/google/uuid"
)

type EvaluationRequest struct {
	Task        string `json:"task"`
	Round       *int   `json:"round,omitempty"`
	GroundTruth string `json:"ground_truth"`
	Submission  string `json:"submission"`
	Participant string `json:"participant"`
}

func (r *EvaluationRequest) Validate() error {
	r.Task = strings.TrimSpace(r.Task)
	r.GroundTruth = strings.TrimSpace(r.GroundTruth)
	r.Submission = strings.TrimSpace(r.Submission)
	r.Participant = strings.TrimSpace(r.Participant)

	switch {
	case r.Task == "":
		return apperr.NewValidation("task is required")
	case r.GroundTruth == "":
		return apperr.NewValidation("ground_truth is required")
	case r.Submission == "":
		return apperr.NewValidation("submission is required")
	}
	return nil
}

func (r *EvaluationRequest) RoundOrDefault() int {
	if r.Round == nil {
		return 1
	}
	return *r.Round
}

type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	ID          uuid.UUID `json:"id"`
	Participant string    `json:"participant"`
	Precision   float64   `json:"precision"`
	Recall      float64   `json:"recall"`
	F1          float64   `json:"f1"`
	CreatedAt   time.Time `json:"created_at"`
}

type LeaderboardResponse struct {
	Task    string             `json:"task"`
	Round   int                `json:"round"`
	Entries []LeaderboardEntry `json:"entries"`
}

func newLeaderboardResponse(task string, round int, records []storage.Record) LeaderboardResponse {
	entries := make([]LeaderboardEntry, 0, len(records))
	for i, r := range records {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			ID:          r.ID,
			Participant: r.Participant,
			Precision:   r.Payload.Precision,
			Recall:      r.Payload.Recall,
			F1:          r.Payload.F1,
			CreatedAt:   r.CreatedAt,
		})
	}
	return LeaderboardResponse{Task: task, Round: round, Entries: entries}
}
