package receipts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	BackendMemory   = "memory"
	BackendPebble   = "pebble"
	BackendLevelDB  = "leveldb"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config selects a backend. Path is a directory for the embedded backends;
// DSN is the postgres connection string.
type Config struct {
	Backend string
	Path    string
	DSN     string
}

// Open returns the configured Store.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	backend := strings.ToLower(cfg.Backend)
	if backend == BackendPebble || backend == BackendLevelDB || backend == BackendSQLite {
		if cfg.Path == "" {
			return nil, fmt.Errorf("receipts: %s backend needs a path", backend)
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("receipts: create %s: %w", cfg.Path, err)
		}
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory, "":
		s = NewMemory()
	case BackendPebble:
		s, err = OpenPebble(cfg.Path)
	case BackendLevelDB:
		s, err = OpenLevelDB(cfg.Path)
	case BackendSQLite:
		s, err = OpenSQLite(ctx, filepath.Join(cfg.Path, "receipts.db"))
	case BackendPostgres:
		s, err = OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("receipts: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("receipt store opened",
		zap.String("backend", backend),
		zap.String("path", cfg.Path))
	return s, nil
}
