package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/semtab-eval/internal/migrations"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/pg"
)

// Store bundles a result store with its health check and cleanup.
type Store struct {
	storage.ResultStore
	Healthy func(ctx context.Context) bool
	Close   func()
}

// NewStore creates the result store selected by cfg. A nil ResultStore is
// returned for storage.None.
func NewStore(ctx context.Context, cfg *StorageConfig) (*Store, error) {
	switch cfg.Type {
	case storage.None:
		return &Store{Healthy: alwaysHealthy, Close: func() {}}, nil

	case storage.InMem:
		return &Store{ResultStore: in_mem.NewInMemStorer(), Healthy: alwaysHealthy, Close: func() {}}, nil

	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("invalid config for PostgreSQL storage: pool config is missing")
		}
		if cfg.Migrate {
			if err := migrations.Up(cfg.Pg.ConnStr); err != nil {
				return nil, fmt.Errorf("failed to migrate PostgreSQL schema: %w", err)
			}
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		storer, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			ResultStore: storer,
			Healthy:     pg.NewHealthChecker(pool).Healthy,
			Close:       pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

func alwaysHealthy(context.Context) bool { return true }
