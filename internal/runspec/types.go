package runspec

import "github.com/DjordjeVuckovic/semtab-eval/internal/scorer"

type RunSpec struct {
	Defaults Defaults `yaml:"defaults"`
	Scoring  Scoring  `yaml:"scoring"`
	Jobs     []Job    `yaml:"jobs"`
}

type Defaults struct {
	Round      int      `yaml:"round"`
	IDPrefixes []string `yaml:"id_prefixes"`
	KeepCase   bool     `yaml:"keep_case"`
}

type Scoring struct {
	CEA CEAScoring            `yaml:"cea"`
	CPA CPAScoring            `yaml:"cpa"`
	CTA scorer.AncestorPolicy `yaml:"cta"`
}

type CEAScoring struct {
	K int `yaml:"k"`
}

type CPAScoring struct {
	IgnoreSubProperties bool `yaml:"ignore_sub_properties"`
}

type Job struct {
	Name        string `yaml:"name"`
	Task        string `yaml:"task"`
	Round       int    `yaml:"round"`
	GroundTruth string `yaml:"ground_truth"`
	Submission  string `yaml:"submission"`
	Participant string `yaml:"participant,omitempty"`
}
