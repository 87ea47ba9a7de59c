package groundtruth

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/blob"
	"gopkg.in/yaml.v3"
)

type Manifest struct {
	Rounds []RoundEntry `yaml:"rounds"`
}

type RoundEntry struct {
	Round        int    `yaml:"round"`
	CEA          string `yaml:"cea,omitempty"`
	CPA          string `yaml:"cpa,omitempty"`
	CTA          string `yaml:"cta,omitempty"`
	CTAHierarchy string `yaml:"cta_hierarchy,omitempty"`
	CPARelations string `yaml:"cpa_relations,omitempty"`
}

// ManifestLocator resolves rounds listed in a YAML manifest. Paths are
// relative to the manifest.
type ManifestLocator struct {
	ref    string
	rounds map[annotation.Round]RoundEntry
}

func LoadManifest(ctx context.Context, ref string, opener blob.Opener) (*ManifestLocator, error) {
	rc, err := opener.Open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(ref, data)
}

func ParseManifest(ref string, data []byte) (*ManifestLocator, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &apperr.RecordError{Kind: apperr.ErrMalformedGroundTruth, Source: ref, Message: "parse manifest", Err: err}
	}
	if err := validate(&m); err != nil {
		return nil, &apperr.RecordError{Kind: apperr.ErrMalformedGroundTruth, Source: ref, Err: err}
	}

	l := &ManifestLocator{ref: ref, rounds: make(map[annotation.Round]RoundEntry, len(m.Rounds))}
	for _, e := range m.Rounds {
		l.rounds[annotation.Round(e.Round)] = e
	}
	return l, nil
}

func validate(m *Manifest) error {
	if len(m.Rounds) == 0 {
		return fmt.Errorf("manifest has no rounds")
	}
	seen := make(map[int]bool, len(m.Rounds))
	for i, e := range m.Rounds {
		if e.Round < 1 {
			return fmt.Errorf("round at index %d must be positive, got %d", i, e.Round)
		}
		if seen[e.Round] {
			return fmt.Errorf("round %d listed twice", e.Round)
		}
		seen[e.Round] = true
		if e.CEA == "" && e.CPA == "" && e.CTA == "" {
			return fmt.Errorf("round %d has no ground truth files", e.Round)
		}
	}
	return nil
}

func (l *ManifestLocator) Resolve(task annotation.Task, round annotation.Round) (Files, error) {
	e, ok := l.rounds[round]
	if !ok {
		return Files{}, apperr.UnknownRound(int(round), fmt.Sprintf("not listed in %s (rounds: %s)", l.ref, l.listedRounds()))
	}

	files := Files{Task: task, Round: round}
	switch task {
	case annotation.CEA:
		files.GroundTruth = e.CEA
	case annotation.CPA:
		files.GroundTruth = e.CPA
		files.Relations = e.CPARelations
	case annotation.CTA:
		files.GroundTruth = e.CTA
		files.Hierarchy = e.CTAHierarchy
	}
	if files.GroundTruth == "" {
		return Files{}, apperr.UnknownRound(int(round), fmt.Sprintf("no %s ground truth in %s", task, l.ref))
	}

	files.GroundTruth = blob.Join(l.ref, files.GroundTruth)
	if files.Hierarchy != "" {
		files.Hierarchy = blob.Join(l.ref, files.Hierarchy)
	}
	if files.Relations != "" {
		files.Relations = blob.Join(l.ref, files.Relations)
	}
	return files, nil
}

func (l *ManifestLocator) listedRounds() string {
	out := make([]int, 0, len(l.rounds))
	for r := range l.rounds {
		out = append(out, int(r))
	}
	sort.Ints(out)

	parts := make([]string, len(out))
	for i, r := range out {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}
