package evidence

import (
	"context"
	"time"
)

// Outcome values recorded for a completion.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Record is the audit entry for a single completion.
type Record struct {
	// Identity
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // From the request ID middleware

	// Timestamps
	RequestTime  time.Time `json:"request_time"`  // When the completion started
	RecordedTime time.Time `json:"recorded_time"` // When the record was built

	// Request
	Model      string `json:"model"`       // Requested model
	Provider   string `json:"provider"`    // Provider name
	PromptHash string `json:"prompt_hash"` // SHA-256 of the user message

	// Response
	ProviderModel string `json:"provider_model"` // Model reported by upstream
	ReplyHash     string `json:"reply_hash"`     // SHA-256 of the reply, empty for null
	FinishReason  string `json:"finish_reason"`

	// Usage
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ProviderLatency time.Duration `json:"provider_latency"`

	// Result
	Outcome   string `json:"outcome"`              // "success" or "error"
	ErrorCode string `json:"error_code,omitempty"` // e.g. "upstream_timeout"
}

// Query defines filter parameters for evidence records.
type Query struct {
	// Time range, both inclusive, applied to RequestTime.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Model   string   `json:"model,omitempty"`
	Outcome string   `json:"outcome,omitempty"`
	IDs     []string `json:"ids,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Ascending returns the oldest records first. The default is newest first.
	Ascending bool `json:"ascending,omitempty"`
}

// Storage defines the interface for evidence storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists an evidence record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, ordered by RequestTime.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many were
	// removed. Pagination fields are ignored.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the storage backend.
	Close() error
}
