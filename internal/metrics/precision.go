package metrics

import (
	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/pkg/utils"
)

// Scored is one answer key entry with its verdict. Label groups entries for
// macro averaging.
type Scored struct {
	Key     annotation.Key
	Label   string
	Outcome annotation.Outcome
}

type Counts struct {
	CorrectWeight float64 `json:"correct_weight"`
	Correct       int     `json:"correct"`
	Partial       int     `json:"partial"`
	Incorrect     int     `json:"incorrect"`
	Missing       int     `json:"missing"`
	Unannotatable int     `json:"unannotatable"`
}

// Submitted is the number of keys answered by the participant.
func (c Counts) Submitted() int {
	return c.Correct + c.Incorrect
}

// Annotatable is the number of keys that carry an accepted answer.
func (c Counts) Annotatable() int {
	return c.Correct + c.Incorrect + c.Missing
}

type Scores struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Aggregate folds outcomes into counts. Partial credit adds its fractional
// weight to CorrectWeight.
func Aggregate(outcomes []Scored) Counts {
	var c Counts
	for _, s := range outcomes {
		c.add(s.Outcome)
	}
	return c
}

func (c *Counts) add(o annotation.Outcome) {
	switch o.Kind {
	case annotation.Correct:
		c.Correct++
		c.CorrectWeight += o.Weight
		if o.Partial() {
			c.Partial++
		}
	case annotation.Incorrect:
		c.Incorrect++
	case annotation.Missing:
		c.Missing++
	case annotation.Unannotatable:
		c.Unannotatable++
	}
}

// Compute derives precision, recall and F1. Empty denominators yield 0.
func Compute(c Counts) Scores {
	p := utils.SafeRatio(c.CorrectWeight, float64(c.Submitted()))
	r := utils.SafeRatio(c.CorrectWeight, float64(c.Annotatable()))
	return Scores{
		Precision: p,
		Recall:    r,
		F1:        utils.HarmonicMean(p, r),
	}
}
