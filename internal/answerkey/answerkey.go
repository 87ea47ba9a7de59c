// Package answerkey loads the ground truth of one task and round into an
// immutable lookup of accepted answers.
package answerkey

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/reader"
)

type AnswerKey struct {
	task    annotation.Task
	round   annotation.Round
	answers map[annotation.Key]annotation.AcceptedSet
	keys    []annotation.Key
	dropped int
}

// Load parses header-less ground truth rows. Rows whose identifiers are all
// empty are dropped; a row without a valid key or a repeated key fails the
// whole load.
func Load(r io.Reader, task annotation.Task, round annotation.Round, norm annotation.Normalizer) (*AnswerKey, error) {
	return LoadNamed(r, "", task, round, norm)
}

func LoadNamed(r io.Reader, source string, task annotation.Task, round annotation.Round, norm annotation.Normalizer) (*AnswerKey, error) {
	ak := &AnswerKey{
		task:    task,
		round:   round,
		answers: make(map[annotation.Key]annotation.AcceptedSet),
	}
	normalize := norm.Func()
	lines := make(map[annotation.Key]int)

	err := reader.NewCSVReader(r).Each(func(rec reader.Record) error {
		key, err := annotation.ParseKey(task, rec.Fields)
		if err != nil {
			return &apperr.RecordError{Kind: apperr.ErrMalformedGroundTruth, Source: source, Line: rec.Line, Err: err}
		}
		if first, ok := lines[key]; ok {
			return &apperr.RecordError{
				Kind:    apperr.ErrMalformedGroundTruth,
				Source:  source,
				Line:    rec.Line,
				Key:     key.String(),
				Message: fmt.Sprintf("key already defined at line %d", first),
			}
		}
		lines[key] = rec.Line

		accepted := annotation.NewAcceptedSet(annotation.SplitIdentifiers(rec.Fields[task.KeyColumns():], normalize))
		if len(accepted) == 0 {
			ak.dropped++
			slog.Debug("Ground truth row without answers dropped", "task", task, "key", key.String(), "line", rec.Line)
			return nil
		}
		ak.answers[key] = accepted
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == nil {
			err = &apperr.RecordError{Kind: apperr.ErrMalformedGroundTruth, Source: source, Err: err}
		}
		return nil, err
	}

	ak.keys = make([]annotation.Key, 0, len(ak.answers))
	for k := range ak.answers {
		ak.keys = append(ak.keys, k)
	}
	slices.SortFunc(ak.keys, annotation.CompareKeys)

	return ak, nil
}

func (ak *AnswerKey) Task() annotation.Task {
	return ak.task
}

func (ak *AnswerKey) Round() annotation.Round {
	return ak.round
}

func (ak *AnswerKey) Get(key annotation.Key) (annotation.AcceptedSet, bool) {
	s, ok := ak.answers[key]
	return s, ok
}

func (ak *AnswerKey) Has(key annotation.Key) bool {
	_, ok := ak.answers[key]
	return ok
}

// Keys returns the scorable keys in table, row, column order.
func (ak *AnswerKey) Keys() []annotation.Key {
	return ak.keys
}

func (ak *AnswerKey) Len() int {
	return len(ak.answers)
}

// Dropped counts ground truth rows that carried no usable identifier.
func (ak *AnswerKey) Dropped() int {
	return ak.dropped
}
