// Package storage provides storage backends for evidence records.
//
// # Storage Backends
//
//   - SQLite: embedded database for single-node deployments, using the pure-Go
//     modernc.org/sqlite driver so relay builds without cgo
//   - Memory: in-memory storage for tests and ephemeral deployments
//
// # SQLite Backend
//
// The SQLite backend opens the database in WAL mode with a busy timeout,
// creates the schema on first use and verifies the schema version. Timestamps
// are stored as Unix nanoseconds so range filters compare numerically.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:         "data/evidence.db",
//	    MaxOpenConns: 4,
//	    BusyTimeout:  5 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
// Use New to pick a backend from configuration.
package storage
