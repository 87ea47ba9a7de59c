package scorer

import "github.com/DjordjeVuckovic/semtab-eval/internal/annotation"

const DefaultTopK = 1

// CellScorer matches CEA answers: a cell is correct when any of the first k
// submitted entities is accepted.
type CellScorer struct {
	k int
}

func NewCellScorer(k int) *CellScorer {
	if k <= 0 {
		k = DefaultTopK
	}
	return &CellScorer{k: k}
}

func (s *CellScorer) Task() annotation.Task {
	return annotation.CEA
}

func (s *CellScorer) K() int {
	return s.k
}

func (s *CellScorer) Match(accepted annotation.AcceptedSet, submitted annotation.Submitted) annotation.Outcome {
	for _, id := range submitted.Top(s.k) {
		if accepted.Contains(id) {
			return annotation.CorrectOutcome()
		}
	}
	return annotation.IncorrectOutcome()
}
