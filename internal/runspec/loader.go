package runspec

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/scorer"
	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*RunSpec, error) {
	var s RunSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse run spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func validate(s *RunSpec) error {
	if len(s.Jobs) == 0 {
		return fmt.Errorf("run spec has no jobs")
	}
	if s.Defaults.Round <= 0 {
		s.Defaults.Round = 1
	}
	if s.Defaults.IDPrefixes == nil {
		s.Defaults.IDPrefixes = annotation.DefaultPrefixes
	}
	if s.Scoring.CEA.K <= 0 {
		s.Scoring.CEA.K = scorer.DefaultTopK
	}
	if err := s.Scoring.CTA.Validate(); err != nil {
		return fmt.Errorf("scoring.cta: %w", err)
	}
	s.Scoring.CTA = s.Scoring.CTA.WithDefaults()

	names := make(map[string]bool, len(s.Jobs))
	for i := range s.Jobs {
		j := &s.Jobs[i]
		if j.Name == "" {
			return fmt.Errorf("job at index %d has no name", i)
		}
		if names[j.Name] {
			return fmt.Errorf("job %q is defined twice", j.Name)
		}
		names[j.Name] = true

		task, err := annotation.ParseTask(j.Task)
		if err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}
		j.Task = string(task)

		if j.GroundTruth == "" {
			return fmt.Errorf("job %q has no ground_truth", j.Name)
		}
		if j.Submission == "" {
			return fmt.Errorf("job %q has no submission", j.Name)
		}
		if j.Round <= 0 {
			j.Round = s.Defaults.Round
		}
	}
	return nil
}

// Normalizer builds the identifier normaliser from the defaults section.
func (s *RunSpec) Normalizer() annotation.Normalizer {
	return annotation.Normalizer{Prefixes: s.Defaults.IDPrefixes, KeepCase: s.Defaults.KeepCase}
}
