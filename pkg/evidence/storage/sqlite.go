package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mercator-hq/relay/pkg/evidence"
)

const backendSQLite = "sqlite"

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path. Parent directories are created.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/evidence.db",
		MaxOpenConns: 4,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements evidence.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, enables WAL mode and creates the
// schema if needed.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}

	logger := slog.Default().With("component", "evidence.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, evidence.NewStorageError(backendSQLite, "mkdir", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(config))
	if err != nil {
		return nil, evidence.NewStorageError(backendSQLite, "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// dsn applies the pragmas to every pooled connection, not just the first.
func dsn(config *SQLiteConfig) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", config.BusyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + config.Path + "?" + q.Encode()
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return evidence.NewStorageError(backendSQLite, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return evidence.NewStorageError(backendSQLite, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return evidence.NewStorageError(backendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return evidence.NewStorageError(backendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store persists an evidence record.
func (s *SQLiteStorage) Store(ctx context.Context, record *evidence.Record) error {
	query := `
		INSERT INTO evidence (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorCode any
	if record.ErrorCode != "" {
		errorCode = record.ErrorCode
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.RequestID,
		record.RequestTime.UnixNano(), record.RecordedTime.UnixNano(),
		record.Model, record.Provider, record.PromptHash,
		record.ProviderModel, record.ReplyHash, record.FinishReason,
		record.PromptTokens, record.CompletionTokens, record.TotalTokens,
		record.ProviderLatency.Milliseconds(),
		record.Outcome, errorCode,
	)
	if err != nil {
		return evidence.NewStorageError(backendSQLite, "store", err)
	}
	return nil
}

// Query retrieves evidence records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *evidence.Query) ([]*evidence.Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT " + selectColumns + " FROM evidence"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	if query.Ascending {
		sqlQuery += " ORDER BY request_time ASC, id ASC"
	} else {
		sqlQuery += " ORDER BY request_time DESC, id DESC"
	}

	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", query.Limit)
		if query.Offset > 0 {
			sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
		}
	} else if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT -1 OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, evidence.NewStorageError(backendSQLite, "query", err)
	}
	defer rows.Close()

	records := []*evidence.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, evidence.NewStorageError(backendSQLite, "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, evidence.NewStorageError(backendSQLite, "query", err)
	}

	return records, nil
}

// Count returns the number of evidence records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *evidence.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM evidence"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, evidence.NewStorageError(backendSQLite, "count", err)
	}
	return count, nil
}

// Delete removes evidence records matching the query filters.
func (s *SQLiteStorage) Delete(ctx context.Context, query *evidence.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM evidence"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, evidence.NewStorageError(backendSQLite, "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, evidence.NewStorageError(backendSQLite, "delete", err)
	}
	return count, nil
}

// Ping verifies the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return evidence.NewStorageError(backendSQLite, "ping", err)
	}
	return nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return evidence.NewStorageError(backendSQLite, "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause returns the WHERE clause without the keyword, and its
// arguments.
func buildWhereClause(query *evidence.Query) (string, []any) {
	var conditions []string
	var args []any

	if query.StartTime != nil {
		conditions = append(conditions, "request_time >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "request_time <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	if query.Model != "" {
		conditions = append(conditions, "model = ?")
		args = append(args, query.Model)
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, query.Outcome)
	}
	if len(query.IDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(query.IDs)), ",")
		conditions = append(conditions, "id IN ("+placeholders+")")
		for _, id := range query.IDs {
			args = append(args, id)
		}
	}

	return strings.Join(conditions, " AND "), args
}

func scanRow(rows *sql.Rows) (*evidence.Record, error) {
	var record evidence.Record
	var requestTime, recordedTime, latencyMs int64
	var providerModel, replyHash, finishReason, errorCode sql.NullString

	err := rows.Scan(
		&record.ID, &record.RequestID, &requestTime, &recordedTime,
		&record.Model, &record.Provider, &record.PromptHash,
		&providerModel, &replyHash, &finishReason,
		&record.PromptTokens, &record.CompletionTokens, &record.TotalTokens, &latencyMs,
		&record.Outcome, &errorCode,
	)
	if err != nil {
		return nil, err
	}

	record.RequestTime = time.Unix(0, requestTime).UTC()
	record.RecordedTime = time.Unix(0, recordedTime).UTC()
	record.ProviderModel = providerModel.String
	record.ReplyHash = replyHash.String
	record.FinishReason = finishReason.String
	record.ErrorCode = errorCode.String
	record.ProviderLatency = time.Duration(latencyMs) * time.Millisecond

	return &record, nil
}
