package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/DjordjeVuckovic/semtab-eval/internal/blob"
	"github.com/DjordjeVuckovic/semtab-eval/internal/dispatch"
	"github.com/DjordjeVuckovic/semtab-eval/internal/report"
	"github.com/DjordjeVuckovic/semtab-eval/internal/runner"
	"github.com/DjordjeVuckovic/semtab-eval/internal/runspec"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/factory"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/pg"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !run(ctx, cfg) {
		stop()
		os.Exit(1)
	}
}

// run evaluates every configured job and reports whether all succeeded.
func run(ctx context.Context, cfg cliConfig) bool {
	rs, err := loadRunSpec(cfg)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return false
	}

	opener, err := newOpener(ctx)
	if err != nil {
		slog.Error("Failed to configure S3", "error", err)
		return false
	}

	d, err := dispatch.New(
		dispatch.WithTopK(rs.Scoring.CEA.K),
		dispatch.WithIgnoreSubProperties(rs.Scoring.CPA.IgnoreSubProperties),
		dispatch.WithAncestorPolicy(rs.Scoring.CTA),
		dispatch.WithNormalizer(rs.Normalizer()),
		dispatch.WithOpener(opener),
	)
	if err != nil {
		slog.Error("Failed to create evaluator", "error", err)
		return false
	}

	storeType, err := factory.ParseType(cfg.Store)
	if err != nil {
		slog.Error("Invalid store", "store", cfg.Store, "error", err)
		return false
	}
	storeCfg := &factory.StorageConfig{Type: storeType, Migrate: true}
	if cfg.PgConnStr != "" {
		storeCfg.Pg = &pg.PoolConfig{ConnStr: cfg.PgConnStr}
	}
	store, err := factory.NewStore(ctx, storeCfg)
	if err != nil {
		slog.Error("Failed to create result store", "store", storeType, "error", err)
		return false
	}
	defer store.Close()

	r := runner.New(runner.Config{Parallelism: cfg.Parallel}, d, store.ResultStore)
	rep := report.New(r.RunAll(ctx, rs.Jobs))

	report.WriteTable(rep, os.Stdout)
	if cfg.Output != "" {
		if err := report.WriteJSON(rep, cfg.Output); err != nil {
			slog.Error("Failed to write report", "path", cfg.Output, "error", err)
			return false
		}
		slog.Info("Report written", "path", cfg.Output)
	}

	return !rep.HasErrors()
}

func loadRunSpec(cfg cliConfig) (*runspec.RunSpec, error) {
	if cfg.SpecPath == "" {
		return cfg.runSpec()
	}
	rs, err := runspec.LoadFromFile(cfg.SpecPath)
	if err != nil {
		return nil, err
	}
	if cfg.Participant != "" {
		for i := range rs.Jobs {
			if rs.Jobs[i].Participant == "" {
				rs.Jobs[i].Participant = cfg.Participant
			}
		}
	}
	return rs, nil
}

func newOpener(ctx context.Context) (blob.Opener, error) {
	s3Cfg := blob.S3ConfigFromEnv()
	if s3Cfg == nil {
		return blob.MultiOpener{}, nil
	}
	s3, err := blob.NewS3Opener(ctx, *s3Cfg)
	if err != nil {
		return nil, err
	}
	return blob.MultiOpener{S3: s3}, nil
}
