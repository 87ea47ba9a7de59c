// Package submission parses participant annotation files.
package submission

import (
	"fmt"
	"io"
	"strings"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/reader"
)

type Submission struct {
	task    annotation.Task
	entries map[annotation.Key]annotation.Submitted
	skipped []SkippedRow
}

// SkippedRow is a submitted row whose key could not be parsed. It never
// reaches an answer key entry.
type SkippedRow struct {
	Line   int
	Reason string
}

// Read parses a submission with the same column layout as the ground truth.
// Identifiers keep their order so that ranked guesses survive. An optional
// header row is skipped. Rows with an unparseable key are kept aside as
// skipped rows; only unreadable input fails the whole submission.
func Read(r io.Reader, task annotation.Task, norm annotation.Normalizer) (*Submission, error) {
	return ReadNamed(r, "", task, norm)
}

func ReadNamed(r io.Reader, source string, task annotation.Task, norm annotation.Normalizer) (*Submission, error) {
	sub := &Submission{
		task:    task,
		entries: make(map[annotation.Key]annotation.Submitted),
	}
	normalize := norm.Func()
	lines := make(map[annotation.Key]int)
	first := true

	err := reader.NewCSVReader(r).Each(func(rec reader.Record) error {
		if first {
			first = false
			if isHeader(rec.Fields) {
				return nil
			}
		}

		key, err := annotation.ParseKey(task, rec.Fields)
		if err != nil {
			sub.skipped = append(sub.skipped, SkippedRow{Line: rec.Line, Reason: err.Error()})
			return nil
		}
		if prev, ok := lines[key]; ok {
			return &apperr.RecordError{
				Kind:    apperr.ErrDuplicateSubmissionEntry,
				Source:  source,
				Line:    rec.Line,
				Key:     key.String(),
				Message: fmt.Sprintf("first seen at line %d", prev),
			}
		}
		lines[key] = rec.Line

		ids := annotation.SplitIdentifiers(rec.Fields[task.KeyColumns():], normalize)
		sub.entries[key] = annotation.Submitted(ids)
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == nil {
			err = &apperr.RecordError{Kind: apperr.ErrMalformedSubmission, Source: source, Err: err}
		}
		return nil, err
	}

	return sub, nil
}

func isHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(fields[0])) {
	case "tab_id", "table_id", "table":
		return true
	}
	return false
}

func (s *Submission) Task() annotation.Task {
	return s.task
}

func (s *Submission) Get(key annotation.Key) (annotation.Submitted, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *Submission) Len() int {
	return len(s.entries)
}

// Skipped lists the rows dropped for an unparseable key, in file order.
func (s *Submission) Skipped() []SkippedRow {
	return s.skipped
}

// Extraneous counts submitted keys for which known reports false.
func (s *Submission) Extraneous(known func(annotation.Key) bool) int {
	var n int
	for k := range s.entries {
		if !known(k) {
			n++
		}
	}
	return n
}
