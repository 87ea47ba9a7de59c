package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage/pg"
)

type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	// Migrate applies the embedded schema migrations before use.
	Migrate bool
}

// ParseType accepts the store names used on the command line and in env.
func ParseType(s string) (storage.Type, error) {
	switch s {
	case "", string(storage.None):
		return storage.None, nil
	case "memory", string(storage.InMem):
		return storage.InMem, nil
	case string(storage.PG), "postgres":
		return storage.PG, nil
	default:
		return "", fmt.Errorf(string(storage.ErrUnsupportedStorer), s)
	}
}

// LoadEnv reads STORE_TYPE, PG_CONN_STR, PG_MAX_CONNS and PG_MIGRATE.
// An unset STORE_TYPE selects the in-memory store.
func LoadEnv() (*StorageConfig, error) {
	raw := os.Getenv("STORE_TYPE")
	if raw == "" {
		raw = string(storage.InMem)
	}
	storageType, err := ParseType(raw)
	if err != nil {
		slog.Error("Invalid STORE_TYPE environment variable value", "value", raw)
		return nil, fmt.Errorf(
			"invalid STORE_TYPE environment variable value: %s, expected one of %v",
			raw,
			[]storage.Type{storage.None, storage.InMem, storage.PG})
	}

	cfg := &StorageConfig{Type: storageType}
	if storageType != storage.PG {
		return cfg, nil
	}

	cfg.Pg = &pg.PoolConfig{ConnStr: os.Getenv("PG_CONN_STR")}
	if cfg.Pg.ConnStr == "" {
		slog.Error("PostgreSQL connection string is not set")
		return nil, fmt.Errorf("PostgreSQL connection string is not set")
	}
	if v := os.Getenv("PG_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PG_MAX_CONNS value: %s", v)
		}
		cfg.Pg.MaxConns = int32(n)
	}
	cfg.Migrate = os.Getenv("PG_MIGRATE") == "true"

	return cfg, nil
}
