package scorer

import (
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
)

// PropertyRelations records which properties are narrower than, or
// equivalent to, a broader property.
type PropertyRelations struct {
	broader edges
}

// LoadPropertyRelations reads "narrower,broader" rows. Equivalent
// properties are listed in both directions.
func LoadPropertyRelations(r io.Reader, norm annotation.Normalizer) (*PropertyRelations, error) {
	g, err := loadEdges(r, norm)
	if err != nil {
		return nil, fmt.Errorf("load property relations: %w", err)
	}
	return &PropertyRelations{broader: g}, nil
}

func NewPropertyRelations(pairs map[string][]string) *PropertyRelations {
	return &PropertyRelations{broader: edges(pairs)}
}

// Implies reports whether narrow is broad or reaches it through documented
// relations.
func (pr *PropertyRelations) Implies(narrow, broad string) bool {
	if pr == nil {
		return narrow == broad
	}
	_, ok := pr.broader.distance(narrow, broad, 0)
	return ok
}

type PropertyOption func(*ColumnPropertyScorer)

// WithIgnoreSubProperties accepts a submitted sub-property of an accepted
// property as a match.
func WithIgnoreSubProperties(relations *PropertyRelations) PropertyOption {
	return func(s *ColumnPropertyScorer) {
		s.ignoreSubProperties = true
		s.relations = relations
	}
}

// ColumnPropertyScorer matches CPA answers on the single submitted property.
type ColumnPropertyScorer struct {
	ignoreSubProperties bool
	relations           *PropertyRelations
}

func NewColumnPropertyScorer(opts ...PropertyOption) *ColumnPropertyScorer {
	s := &ColumnPropertyScorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ColumnPropertyScorer) Task() annotation.Task {
	return annotation.CPA
}

func (s *ColumnPropertyScorer) Match(accepted annotation.AcceptedSet, submitted annotation.Submitted) annotation.Outcome {
	prop := submitted.First()
	if accepted.Contains(prop) {
		return annotation.CorrectOutcome()
	}
	if s.ignoreSubProperties && prop != "" {
		for _, a := range accepted {
			if s.relations.Implies(prop, a) {
				return annotation.CorrectOutcome()
			}
		}
	}
	return annotation.IncorrectOutcome()
}
