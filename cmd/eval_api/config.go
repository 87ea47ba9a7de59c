package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/api/server"
	"github.com/DjordjeVuckovic/semtab-eval/internal/scorer"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/factory"
	"github.com/DjordjeVuckovic/semtab-eval/pkg/config/env"
	"github.com/DjordjeVuckovic/semtab-eval/pkg/utils"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ScoringConfig struct {
	CEAK                int
	IgnoreSubProperties bool
	AncestorPolicy      scorer.AncestorPolicy
	Normalizer          annotation.Normalizer
}

type EvalAPIConfig struct {
	StorageConfig factory.StorageConfig
	Scoring       ScoringConfig
	AllowedRoots  []string
}

func (as *AppConfig) Load() (*EvalAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, server.DefaultEnvPath)
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	scoring, err := loadScoring()
	if err != nil {
		return nil, fmt.Errorf("load scoring configuration: %w", err)
	}

	return &EvalAPIConfig{
		StorageConfig: *storageCfg,
		Scoring:       scoring,
		AllowedRoots:  splitList(os.Getenv("ALLOWED_ROOTS")),
	}, nil
}

func loadScoring() (ScoringConfig, error) {
	cfg := ScoringConfig{
		CEAK:           scorer.DefaultTopK,
		AncestorPolicy: scorer.AncestorPolicy{Mode: scorer.Mode(os.Getenv("CTA_MODE")), Decay: scorer.Decay(os.Getenv("CTA_DECAY"))},
		Normalizer:     annotation.DefaultNormalizer(),
	}

	var err error
	if cfg.CEAK, err = intEnv("CEA_K", scorer.DefaultTopK); err != nil {
		return cfg, err
	}
	if cfg.AncestorPolicy.MaxDepth, err = intEnv("CTA_MAX_DEPTH", scorer.DefaultMaxDepth); err != nil {
		return cfg, err
	}
	if v := os.Getenv("CTA_DECAY_BASE"); v != "" {
		if cfg.AncestorPolicy.Base, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("invalid CTA_DECAY_BASE value %q: %w", v, err)
		}
	}
	cfg.IgnoreSubProperties = os.Getenv("CPA_IGNORE_SUB_PROPERTIES") == "true"

	if v, ok := os.LookupEnv("ID_PREFIXES"); ok {
		cfg.Normalizer.Prefixes = splitList(v)
	}
	cfg.Normalizer.KeepCase = os.Getenv("ID_KEEP_CASE") == "true"

	if err := cfg.AncestorPolicy.Validate(); err != nil {
		return cfg, err
	}
	cfg.AncestorPolicy = cfg.AncestorPolicy.WithDefaults()
	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s value %q: expected a positive number", key, v)
	}
	return n, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return utils.RemoveEmptyStrings(parts)
}
