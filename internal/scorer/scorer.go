// Package scorer holds the per-task match rules and the scoring pass shared
// by all of them.
package scorer

import (
	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/answerkey"
	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
	"github.com/DjordjeVuckovic/semtab-eval/internal/submission"
)

// Scorer decides whether a submitted answer matches the accepted answers of
// one key. Implementations must not keep state between calls.
type Scorer interface {
	Task() annotation.Task
	Match(accepted annotation.AcceptedSet, submitted annotation.Submitted) annotation.Outcome
}

// Labeler is implemented by scorers that group keys for macro averaging.
type Labeler interface {
	Label(accepted annotation.AcceptedSet) string
}

type Result struct {
	Outcomes   []metrics.Scored
	Extraneous int
}

// Score evaluates every answer key entry against the submission. Keys only
// present in the submission are counted as extraneous and never scored.
func Score(s Scorer, ak *answerkey.AnswerKey, sub *submission.Submission) Result {
	labeler, _ := s.(Labeler)

	res := Result{Outcomes: make([]metrics.Scored, 0, ak.Len())}
	for _, key := range ak.Keys() {
		accepted, _ := ak.Get(key)
		sc := metrics.Scored{Key: key}
		if labeler != nil {
			sc.Label = labeler.Label(accepted)
		}

		switch submitted, ok := sub.Get(key); {
		case len(accepted) == 0:
			sc.Outcome = annotation.UnannotatableOutcome()
		case !ok:
			sc.Outcome = annotation.MissingOutcome()
		case len(submitted) == 0:
			sc.Outcome = annotation.IncorrectOutcome()
		default:
			sc.Outcome = s.Match(accepted, submitted)
		}
		res.Outcomes = append(res.Outcomes, sc)
	}

	res.Extraneous = sub.Extraneous(ak.Has)
	return res
}
