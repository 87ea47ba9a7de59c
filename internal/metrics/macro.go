package metrics

import "sort"

type LabelScores struct {
	Label  string `json:"label"`
	Counts Counts `json:"counts"`
	Scores Scores `json:"scores"`
}

type Macro struct {
	Precision float64       `json:"macro_precision"`
	Recall    float64       `json:"macro_recall"`
	F1        float64       `json:"macro_f1"`
	PerLabel  []LabelScores `json:"per_label"`
}

// MacroAverage scores every label on its own and averages the per-label
// precision, recall and F1 with equal weight. Unannotatable entries and
// entries without a label are ignored.
func MacroAverage(outcomes []Scored) Macro {
	byLabel := make(map[string]*Counts)
	for _, s := range outcomes {
		if s.Label == "" || !s.Outcome.Annotatable() {
			continue
		}
		c, ok := byLabel[s.Label]
		if !ok {
			c = &Counts{}
			byLabel[s.Label] = c
		}
		c.add(s.Outcome)
	}

	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	m := Macro{PerLabel: make([]LabelScores, 0, len(labels))}
	for _, l := range labels {
		c := *byLabel[l]
		s := Compute(c)
		m.PerLabel = append(m.PerLabel, LabelScores{Label: l, Counts: c, Scores: s})
		m.Precision += s.Precision
		m.Recall += s.Recall
		m.F1 += s.F1
	}

	if n := float64(len(labels)); n > 0 {
		m.Precision /= n
		m.Recall /= n
		m.F1 /= n
	}
	return m
}
