package metrics

import (
	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
)

const ScoreDecimalPlaces = 4

// Extra keys reported for every task.
const (
	ExtraCorrectWeight = "correct_weight"
	ExtraSubmitted     = "submitted"
	ExtraAnnotatable   = "annotatable"
	ExtraMissing       = "missing"
	ExtraUnannotatable = "unannotatable"
	ExtraExtraneous    = "extraneous"
	ExtraMalformed     = "malformed"
)

// Extra keys reported for CTA.
const (
	ExtraMacroPrecision = "macro_precision"
	ExtraMacroRecall    = "macro_recall"
	ExtraMacroF1        = "macro_f1"
	ExtraPartialCredit  = "partial_credit"
)

// ScorePayload is the result of one evaluation.
type ScorePayload struct {
	Task      annotation.Task    `json:"task"`
	Round     annotation.Round   `json:"round"`
	Precision float64            `json:"precision"`
	Recall    float64            `json:"recall"`
	F1        float64            `json:"f1"`
	Extra     map[string]float64 `json:"extra"`
	Counts    Counts             `json:"counts"`
	PerLabel  []LabelScores      `json:"per_label,omitempty"`
}

// NewPayload builds the payload for a finished scoring pass. Macro averages
// are attached when withMacro is set.
func NewPayload(task annotation.Task, round annotation.Round, outcomes []Scored, extraneous int, withMacro bool) ScorePayload {
	c := Aggregate(outcomes)
	s := Compute(c)

	p := ScorePayload{
		Task:      task,
		Round:     round,
		Precision: s.Precision,
		Recall:    s.Recall,
		F1:        s.F1,
		Counts:    c,
		Extra: map[string]float64{
			ExtraCorrectWeight: c.CorrectWeight,
			ExtraSubmitted:     float64(c.Submitted()),
			ExtraAnnotatable:   float64(c.Annotatable()),
			ExtraMissing:       float64(c.Missing),
			ExtraUnannotatable: float64(c.Unannotatable),
			ExtraExtraneous:    float64(extraneous),
		},
	}

	if withMacro {
		m := MacroAverage(outcomes)
		p.Extra[ExtraMacroPrecision] = m.Precision
		p.Extra[ExtraMacroRecall] = m.Recall
		p.Extra[ExtraMacroF1] = m.F1
		p.Extra[ExtraPartialCredit] = float64(c.Partial)
		p.PerLabel = m.PerLabel
	}

	return p
}

// MainScore is the ranking number of a payload: F1, with precision as the
// secondary sort key.
func (p ScorePayload) MainScore() (float64, float64) {
	return p.F1, p.Precision
}
