package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/DjordjeVuckovic/semtab-eval/internal/report"
	"github.com/DjordjeVuckovic/semtab-eval/internal/runspec"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"golang.org/x/sync/errgroup"
)

type Evaluator interface {
	Evaluate(ctx context.Context, task string, round int, groundTruthRef, submissionRef string) (metrics.ScorePayload, error)
}

type Config struct {
	// Parallelism is the number of jobs evaluated at once. Values below 2
	// run jobs one after another.
	Parallelism int
}

type Runner struct {
	config    Config
	evaluator Evaluator
	store     storage.ResultStore
}

// New creates a runner. store may be nil, in which case results are not
// persisted.
func New(cfg Config, evaluator Evaluator, store storage.ResultStore) *Runner {
	return &Runner{config: cfg, evaluator: evaluator, store: store}
}

// RunAll evaluates every job and returns one entry per job in job order.
// A failing job is recorded in its entry and does not stop the others.
func (r *Runner) RunAll(ctx context.Context, jobs []runspec.Job) []report.Entry {
	entries := make([]report.Entry, len(jobs))

	if r.config.Parallelism < 2 {
		for i, job := range jobs {
			entries[i] = r.RunJob(ctx, job)
		}
		return entries
	}

	var g errgroup.Group
	g.SetLimit(r.config.Parallelism)
	for i, job := range jobs {
		g.Go(func() error {
			entries[i] = r.RunJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

func (r *Runner) RunJob(ctx context.Context, job runspec.Job) report.Entry {
	entry := report.Entry{
		Name:        job.Name,
		Task:        job.Task,
		Round:       job.Round,
		Participant: job.Participant,
	}

	start := time.Now()
	payload, err := r.evaluator.Evaluate(ctx, job.Task, job.Round, job.GroundTruth, job.Submission)
	entry.Elapsed = time.Since(start)
	if err != nil {
		entry.Error = err.Error()
		slog.Error("Evaluation failed", "job", job.Name, "task", job.Task, "round", job.Round, "error", err)
		return entry
	}
	entry.Payload = &payload

	if r.store != nil {
		id, err := r.store.Save(ctx, storage.Record{
			Participant: job.Participant,
			Task:        payload.Task,
			Round:       payload.Round,
			GroundTruth: job.GroundTruth,
			Submission:  job.Submission,
			Payload:     payload,
		})
		if err != nil {
			entry.Error = err.Error()
			slog.Error("Failed to store evaluation", "job", job.Name, "error", err)
			return entry
		}
		slog.Debug("Evaluation stored", "job", job.Name, "id", id)
	}

	return entry
}
