package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/runspec"
	"github.com/DjordjeVuckovic/semtab-eval/internal/scorer"
	"github.com/DjordjeVuckovic/semtab-eval/pkg/utils"
)

type cliConfig struct {
	CEAGroundTruth string
	CEASubmission  string
	CPAGroundTruth string
	CPASubmission  string
	CTAGroundTruth string
	CTASubmission  string

	Round             int
	Participant       string
	CEAK              int
	CPAIgnoreSubProps bool
	CTAMode           string
	CTAMaxDepth       int
	CTADecay          string
	CTADecayBase      float64
	IDPrefixes        string
	KeepCase          bool

	SpecPath  string
	Output    string
	Parallel  int
	Store     string
	PgConnStr string
	Verbose   bool
}

func parseFlags(fs *flag.FlagSet, args []string) (cliConfig, error) {
	cfg := cliConfig{}

	fs.StringVar(&cfg.CEAGroundTruth, "cea-gt", "", "CEA ground truth (file, directory or manifest)")
	fs.StringVar(&cfg.CEASubmission, "cea-sub", "", "CEA submission CSV")
	fs.StringVar(&cfg.CPAGroundTruth, "cpa-gt", "", "CPA ground truth (file, directory or manifest)")
	fs.StringVar(&cfg.CPASubmission, "cpa-sub", "", "CPA submission CSV")
	fs.StringVar(&cfg.CTAGroundTruth, "cta-gt", "", "CTA ground truth (file, directory or manifest)")
	fs.StringVar(&cfg.CTASubmission, "cta-sub", "", "CTA submission CSV")
	fs.IntVar(&cfg.Round, "round", 1, "Evaluation round")
	fs.StringVar(&cfg.Participant, "participant", "", "Participant name stored with the results")
	fs.IntVar(&cfg.CEAK, "cea-k", scorer.DefaultTopK, "Number of ranked CEA guesses checked per cell")
	fs.BoolVar(&cfg.CPAIgnoreSubProps, "cpa-ignore-sub-properties", false, "Accept sub-properties of the expected CPA property")
	fs.StringVar(&cfg.CTAMode, "cta-mode", string(scorer.ExactOnly), "CTA scoring mode: exact_only or max_ancestor_depth")
	fs.IntVar(&cfg.CTAMaxDepth, "cta-max-depth", scorer.DefaultMaxDepth, "Deepest CTA ancestor that earns partial credit")
	fs.StringVar(&cfg.CTADecay, "cta-decay", string(scorer.ExponentialDecay), "CTA partial credit decay: linear or exponential")
	fs.Float64Var(&cfg.CTADecayBase, "cta-decay-base", scorer.DefaultDecayBase, "Base of the exponential CTA decay")
	fs.StringVar(&cfg.IDPrefixes, "id-prefixes", strings.Join(annotation.DefaultPrefixes, ","), "URI prefixes stripped from identifiers, comma-separated")
	fs.BoolVar(&cfg.KeepCase, "keep-case", false, "Compare identifiers case-sensitively")
	fs.StringVar(&cfg.SpecPath, "spec", "", "Path to run spec YAML (multi-job mode)")
	fs.StringVar(&cfg.Output, "output", "", "Output path for the JSON report")
	fs.IntVar(&cfg.Parallel, "parallel", 1, "Number of jobs evaluated concurrently")
	fs.StringVar(&cfg.Store, "store", "none", "Result store: none, memory or pg")
	fs.StringVar(&cfg.PgConnStr, "pg", "", "PostgreSQL connection string for -store pg")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c cliConfig) policy() scorer.AncestorPolicy {
	return scorer.AncestorPolicy{
		Mode:     scorer.Mode(c.CTAMode),
		MaxDepth: c.CTAMaxDepth,
		Decay:    scorer.Decay(c.CTADecay),
		Base:     c.CTADecayBase,
	}
}

func (c cliConfig) normalizer() annotation.Normalizer {
	prefixes := strings.Split(c.IDPrefixes, ",")
	for i := range prefixes {
		prefixes[i] = strings.TrimSpace(prefixes[i])
	}
	return annotation.Normalizer{Prefixes: utils.RemoveEmptyStrings(prefixes), KeepCase: c.KeepCase}
}

// runSpec builds a run spec from the per-task path flags.
func (c cliConfig) runSpec() (*runspec.RunSpec, error) {
	pairs := []struct {
		task    annotation.Task
		gt, sub string
	}{
		{annotation.CEA, c.CEAGroundTruth, c.CEASubmission},
		{annotation.CPA, c.CPAGroundTruth, c.CPASubmission},
		{annotation.CTA, c.CTAGroundTruth, c.CTASubmission},
	}

	s := &runspec.RunSpec{
		Defaults: runspec.Defaults{Round: c.Round, IDPrefixes: c.normalizer().Prefixes, KeepCase: c.KeepCase},
		Scoring: runspec.Scoring{
			CEA: runspec.CEAScoring{K: c.CEAK},
			CPA: runspec.CPAScoring{IgnoreSubProperties: c.CPAIgnoreSubProps},
			CTA: c.policy(),
		},
	}

	for _, p := range pairs {
		switch {
		case p.gt == "" && p.sub == "":
			continue
		case p.gt == "" || p.sub == "":
			return nil, fmt.Errorf("-%s-gt and -%s-sub must be given together", p.task.Lower(), p.task.Lower())
		}
		s.Jobs = append(s.Jobs, runspec.Job{
			Name:        p.task.Lower(),
			Task:        string(p.task),
			Round:       c.Round,
			GroundTruth: p.gt,
			Submission:  p.sub,
			Participant: c.Participant,
		})
	}

	if len(s.Jobs) == 0 {
		return nil, fmt.Errorf("no task to evaluate: pass -spec or at least one -<task>-gt/-<task>-sub pair")
	}
	if c.Round < 1 {
		return nil, fmt.Errorf("round must be at least 1, got %d", c.Round)
	}
	if err := s.Scoring.CTA.Validate(); err != nil {
		return nil, err
	}
	s.Scoring.CTA = s.Scoring.CTA.WithDefaults()
	return s, nil
}
