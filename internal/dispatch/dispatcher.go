// Package dispatch runs one evaluation end to end: it resolves the round's
// ground truth, picks the task scorer and returns the score payload.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/answerkey"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/groundtruth"
	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/DjordjeVuckovic/semtab-eval/internal/scorer"
	"github.com/DjordjeVuckovic/semtab-eval/internal/submission"
)

// Dispatcher only holds configuration and is safe for concurrent use. Each
// call builds its own answer key.
type Dispatcher struct {
	cfg config
}

func New(opts ...Option) (*Dispatcher, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.ancestorPolicy.Validate(); err != nil {
		return nil, apperr.NewValidationWrap("invalid CTA policy", err)
	}
	cfg.ancestorPolicy = cfg.ancestorPolicy.WithDefaults()
	return &Dispatcher{cfg: cfg}, nil
}

// Evaluate scores the submission at submissionRef for task against the
// ground truth of round located by groundTruthRef.
func (d *Dispatcher) Evaluate(ctx context.Context, taskName string, round int, groundTruthRef, submissionRef string) (metrics.ScorePayload, error) {
	task, err := annotation.ParseTask(taskName)
	if err != nil {
		return metrics.ScorePayload{}, err
	}
	r := annotation.Round(round)
	if !r.Valid() {
		return metrics.ScorePayload{}, apperr.UnknownRound(round, "rounds start at 1")
	}

	loc, err := groundtruth.Open(ctx, groundTruthRef, d.cfg.opener)
	if err != nil {
		return metrics.ScorePayload{}, fmt.Errorf("open ground truth: %w", err)
	}
	files, err := loc.Resolve(task, r)
	if err != nil {
		return metrics.ScorePayload{}, err
	}

	start := time.Now()

	ak, err := d.loadAnswerKey(ctx, files)
	if err != nil {
		return metrics.ScorePayload{}, err
	}
	s, err := d.scorerFor(ctx, files)
	if err != nil {
		return metrics.ScorePayload{}, err
	}

	rc, err := d.cfg.opener.Open(ctx, submissionRef)
	if err != nil {
		return metrics.ScorePayload{}, fmt.Errorf("open submission: %w", err)
	}
	defer rc.Close()

	sub, err := submission.ReadNamed(rc, submissionRef, task, d.cfg.normalizer)
	if err != nil {
		return metrics.ScorePayload{}, fmt.Errorf("read submission: %w", err)
	}

	p := d.score(s, ak, sub)
	d.cfg.logger.Info("Evaluation finished",
		"task", task,
		"round", r,
		"precision", p.Precision,
		"recall", p.Recall,
		"f1", p.F1,
		"elapsed", time.Since(start),
	)
	return p, nil
}

// EvaluateReaders scores already opened sources. No hierarchy or relations
// are given, so CPA matches exactly and CTA fails unless the policy is
// exact_only.
func (d *Dispatcher) EvaluateReaders(taskName string, round int, groundTruth, sub io.Reader) (metrics.ScorePayload, error) {
	task, err := annotation.ParseTask(taskName)
	if err != nil {
		return metrics.ScorePayload{}, err
	}
	r := annotation.Round(round)
	if !r.Valid() {
		return metrics.ScorePayload{}, apperr.UnknownRound(round, "rounds start at 1")
	}

	ak, err := answerkey.Load(groundTruth, task, r, d.cfg.normalizer)
	if err != nil {
		return metrics.ScorePayload{}, fmt.Errorf("load answer key: %w", err)
	}
	parsed, err := submission.Read(sub, task, d.cfg.normalizer)
	if err != nil {
		return metrics.ScorePayload{}, fmt.Errorf("read submission: %w", err)
	}

	s, err := d.newScorer(task, nil, nil)
	if err != nil {
		return metrics.ScorePayload{}, err
	}
	return d.score(s, ak, parsed), nil
}

func (d *Dispatcher) score(s scorer.Scorer, ak *answerkey.AnswerKey, sub *submission.Submission) metrics.ScorePayload {
	for _, row := range sub.Skipped() {
		d.cfg.logger.Warn("Skipping submission row with malformed key",
			"task", ak.Task(), "line", row.Line, "reason", row.Reason)
	}

	res := scorer.Score(s, ak, sub)
	_, withMacro := s.(scorer.Labeler)
	if res.Extraneous > 0 {
		d.cfg.logger.Warn("Submission has annotations outside the ground truth",
			"task", ak.Task(), "round", ak.Round(), "count", res.Extraneous)
	}
	p := metrics.NewPayload(ak.Task(), ak.Round(), res.Outcomes, res.Extraneous, withMacro)
	p.Extra[metrics.ExtraMalformed] = float64(len(sub.Skipped()))
	return p
}

func (d *Dispatcher) loadAnswerKey(ctx context.Context, files groundtruth.Files) (*answerkey.AnswerKey, error) {
	rc, err := d.cfg.opener.Open(ctx, files.GroundTruth)
	if err != nil {
		return nil, fmt.Errorf("open ground truth: %w", err)
	}
	defer rc.Close()

	ak, err := answerkey.LoadNamed(rc, files.GroundTruth, files.Task, files.Round, d.cfg.normalizer)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	d.cfg.logger.Debug("Answer key loaded", "task", files.Task, "round", files.Round, "keys", ak.Len(), "dropped", ak.Dropped())
	return ak, nil
}

func (d *Dispatcher) scorerFor(ctx context.Context, files groundtruth.Files) (scorer.Scorer, error) {
	var (
		hierarchy *scorer.TypeHierarchy
		relations *scorer.PropertyRelations
	)

	if files.Task == annotation.CTA && d.cfg.ancestorPolicy.PartialCredit() {
		if files.Hierarchy == "" {
			return nil, apperr.UnknownRound(int(files.Round), "CTA partial credit is enabled but the round has no type hierarchy")
		}
		rc, err := d.cfg.opener.Open(ctx, files.Hierarchy)
		if err != nil {
			return nil, fmt.Errorf("open type hierarchy: %w", err)
		}
		defer rc.Close()
		if hierarchy, err = scorer.LoadTypeHierarchy(rc, d.cfg.normalizer); err != nil {
			return nil, &apperr.RecordError{Kind: apperr.ErrMalformedGroundTruth, Source: files.Hierarchy, Err: err}
		}
	}

	if files.Task == annotation.CPA && d.cfg.ignoreSubProperties && files.Relations != "" {
		rc, err := d.cfg.opener.Open(ctx, files.Relations)
		if err != nil {
			return nil, fmt.Errorf("open property relations: %w", err)
		}
		defer rc.Close()
		if relations, err = scorer.LoadPropertyRelations(rc, d.cfg.normalizer); err != nil {
			return nil, &apperr.RecordError{Kind: apperr.ErrMalformedGroundTruth, Source: files.Relations, Err: err}
		}
	}

	return d.newScorer(files.Task, hierarchy, relations)
}

func (d *Dispatcher) newScorer(task annotation.Task, hierarchy *scorer.TypeHierarchy, relations *scorer.PropertyRelations) (scorer.Scorer, error) {
	switch task {
	case annotation.CEA:
		return scorer.NewCellScorer(d.cfg.topK), nil
	case annotation.CPA:
		var opts []scorer.PropertyOption
		if d.cfg.ignoreSubProperties {
			opts = append(opts, scorer.WithIgnoreSubProperties(relations))
		}
		return scorer.NewColumnPropertyScorer(opts...), nil
	case annotation.CTA:
		if d.cfg.ancestorPolicy.PartialCredit() && hierarchy == nil {
			return nil, apperr.NewValidation("CTA partial credit requires a type hierarchy; use exact_only for this source")
		}
		return scorer.NewColumnTypeScorer(d.cfg.ancestorPolicy, hierarchy), nil
	}
	return nil, apperr.UnknownTask(string(task))
}
