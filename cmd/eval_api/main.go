package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/DjordjeVuckovic/semtab-eval/internal/api/router"
	"github.com/DjordjeVuckovic/semtab-eval/internal/api/server"
	"github.com/DjordjeVuckovic/semtab-eval/internal/blob"
	"github.com/DjordjeVuckovic/semtab-eval/internal/dispatch"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/semtab-eval/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	if cfg.StorageConfig.Type == storage.None {
		slog.Warn("Result store disabled, falling back to in-memory storage")
		cfg.StorageConfig.Type = storage.InMem
	}

	ctx := context.Background()

	store, err := factory.NewStore(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create result store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	s := server.New(sCfg, pkgserver.HealthFunc(store.Healthy))

	opener := blob.MultiOpener{}
	if s3Cfg := blob.S3ConfigFromEnv(); s3Cfg != nil {
		s3, err := blob.NewS3Opener(s.Context(), *s3Cfg)
		if err != nil {
			slog.Error("Failed to configure S3", "error", err)
			os.Exit(1)
		}
		opener.S3 = s3
	}

	d, err := dispatch.New(
		dispatch.WithTopK(cfg.Scoring.CEAK),
		dispatch.WithIgnoreSubProperties(cfg.Scoring.IgnoreSubProperties),
		dispatch.WithAncestorPolicy(cfg.Scoring.AncestorPolicy),
		dispatch.WithNormalizer(cfg.Scoring.Normalizer),
		dispatch.WithOpener(opener),
	)
	if err != nil {
		slog.Error("Failed to create evaluator", "error", err)
		os.Exit(1)
	}

	s.SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "SemTab evaluation API is running")
	})

	router.NewEvaluationRouter(s.Echo, d, store.ResultStore, router.WithAllowedRoots(cfg.AllowedRoots...)).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		store.Close()
		os.Exit(1)
	}
}
