package scorer

import (
	"fmt"
	"io"
	"math"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/pkg/utils"
)

type Mode string

const (
	ExactOnly        Mode = "exact_only"
	MaxAncestorDepth Mode = "max_ancestor_depth"
)

type Decay string

const (
	LinearDecay      Decay = "linear"
	ExponentialDecay Decay = "exponential"
)

const (
	DefaultMaxDepth  = 5
	DefaultDecayBase = 0.8
	DefaultPrecision = 4
)

// AncestorPolicy controls partial credit for CTA answers that name an
// ancestor of the expected type. The zero value scores exact matches only.
type AncestorPolicy struct {
	Mode      Mode    `yaml:"mode" json:"mode"`
	MaxDepth  int     `yaml:"max_ancestor_depth" json:"max_ancestor_depth"`
	Decay     Decay   `yaml:"decay" json:"decay"`
	Base      float64 `yaml:"decay_base" json:"decay_base"`
	Precision int     `yaml:"precision" json:"precision"`
}

func ExactOnlyPolicy() AncestorPolicy {
	return AncestorPolicy{Mode: ExactOnly}
}

// WithDefaults fills unset fields.
func (p AncestorPolicy) WithDefaults() AncestorPolicy {
	if p.Mode == "" {
		p.Mode = ExactOnly
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.Decay == "" {
		p.Decay = ExponentialDecay
	}
	if p.Base <= 0 {
		p.Base = DefaultDecayBase
	}
	if p.Precision <= 0 {
		p.Precision = DefaultPrecision
	}
	return p
}

func (p AncestorPolicy) Validate() error {
	switch p.Mode {
	case "", ExactOnly:
		return nil
	case MaxAncestorDepth:
	default:
		return fmt.Errorf("unknown CTA mode %q (expected %s or %s)", p.Mode, ExactOnly, MaxAncestorDepth)
	}
	switch p.Decay {
	case "", LinearDecay, ExponentialDecay:
	default:
		return fmt.Errorf("unknown CTA decay %q (expected %s or %s)", p.Decay, LinearDecay, ExponentialDecay)
	}
	if p.MaxDepth < 0 {
		return fmt.Errorf("max ancestor depth must not be negative, got %d", p.MaxDepth)
	}
	if p.Base != 0 && (p.Base < 0 || p.Base >= 1) {
		return fmt.Errorf("decay base must be in (0,1), got %g", p.Base)
	}
	return nil
}

func (p AncestorPolicy) PartialCredit() bool {
	return p.Mode == MaxAncestorDepth
}

// Weight is the credit for an answer d levels above the expected type.
func (p AncestorPolicy) Weight(d int) float64 {
	p = p.WithDefaults()
	if d == 0 {
		return 1
	}
	if !p.PartialCredit() || d < 0 || d > p.MaxDepth {
		return 0
	}

	var w float64
	switch p.Decay {
	case LinearDecay:
		w = 1 - float64(d)/float64(p.MaxDepth+1)
	default:
		w = math.Pow(p.Base, float64(d))
	}
	return utils.RoundDecimal(w, p.Precision)
}

// TypeHierarchy holds subclass edges between semantic types.
type TypeHierarchy struct {
	parents edges
}

// LoadTypeHierarchy reads "child,parent" rows.
func LoadTypeHierarchy(r io.Reader, norm annotation.Normalizer) (*TypeHierarchy, error) {
	g, err := loadEdges(r, norm)
	if err != nil {
		return nil, fmt.Errorf("load type hierarchy: %w", err)
	}
	return &TypeHierarchy{parents: g}, nil
}

func NewTypeHierarchy(parents map[string][]string) *TypeHierarchy {
	return &TypeHierarchy{parents: edges(parents)}
}

// AncestorDistance returns how many subclass steps separate typ from
// ancestor, searching at most maxDepth levels.
func (h *TypeHierarchy) AncestorDistance(typ, ancestor string, maxDepth int) (int, bool) {
	if h == nil {
		return 0, typ == ancestor
	}
	return h.parents.distance(typ, ancestor, maxDepth)
}

// ColumnTypeScorer matches CTA answers. The first accepted type is the
// primary type; ancestors of it earn partial credit when the policy allows.
type ColumnTypeScorer struct {
	policy    AncestorPolicy
	hierarchy *TypeHierarchy
}

func NewColumnTypeScorer(policy AncestorPolicy, hierarchy *TypeHierarchy) *ColumnTypeScorer {
	return &ColumnTypeScorer{policy: policy.WithDefaults(), hierarchy: hierarchy}
}

func (s *ColumnTypeScorer) Task() annotation.Task {
	return annotation.CTA
}

func (s *ColumnTypeScorer) Policy() AncestorPolicy {
	return s.policy
}

func (s *ColumnTypeScorer) Label(accepted annotation.AcceptedSet) string {
	return accepted.Primary()
}

func (s *ColumnTypeScorer) Match(accepted annotation.AcceptedSet, submitted annotation.Submitted) annotation.Outcome {
	typ := submitted.First()
	if accepted.Contains(typ) {
		return annotation.CorrectOutcome()
	}
	if !s.policy.PartialCredit() || typ == "" {
		return annotation.IncorrectOutcome()
	}

	d, ok := s.hierarchy.AncestorDistance(accepted.Primary(), typ, s.policy.MaxDepth)
	if !ok || d == 0 {
		return annotation.IncorrectOutcome()
	}
	w := s.policy.Weight(d)
	if w <= 0 {
		return annotation.IncorrectOutcome()
	}
	return annotation.PartialOutcome(w)
}
