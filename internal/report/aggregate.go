package report

import (
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
)

const Version = "1"

func New(entries []Entry) *Report {
	return &Report{
		Meta: Meta{
			Version:     Version,
			Timestamp:   time.Now().UTC(),
			Environment: NewEnvironmentInfo(),
		},
		Entries: entries,
		Summary: summarize(entries),
	}
}

// HasErrors reports whether any job failed.
func (r *Report) HasErrors() bool {
	for _, e := range r.Entries {
		if e.Failed() {
			return true
		}
	}
	return false
}

func summarize(entries []Entry) []TaskSummary {
	summaries := make([]TaskSummary, 0, len(annotation.Tasks))

	for _, task := range annotation.Tasks {
		s := TaskSummary{Task: string(task)}
		counted := 0

		for _, e := range entries {
			if e.Task != string(task) {
				continue
			}
			s.JobCount++
			s.Elapsed += e.Elapsed
			if e.Failed() {
				s.ErrorCount++
				continue
			}
			counted++
			s.Precision += e.Payload.Precision
			s.Recall += e.Payload.Recall
			s.F1 += e.Payload.F1
		}

		if s.JobCount == 0 {
			continue
		}
		if counted > 0 {
			n := float64(counted)
			s.Precision /= n
			s.Recall /= n
			s.F1 /= n
		}
		summaries = append(summaries, s)
	}

	return summaries
}
