package storage

import (
	"fmt"

	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/evidence"
)

// New creates the storage backend selected by cfg.Backend.
func New(cfg config.EvidenceConfig) (evidence.Storage, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		return NewSQLiteStorage(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown evidence backend %q", cfg.Backend)
	}
}
