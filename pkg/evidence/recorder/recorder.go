package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/relay/pkg/evidence"
)

// Write results reported to the Observer.
const (
	ResultStored  = "stored"
	ResultDropped = "dropped"
	ResultFailed  = "failed"
)

// Config contains configuration for the evidence recorder.
type Config struct {
	// BufferSize is the size of the async write channel buffer.
	// Default: 1000
	BufferSize int

	// WriteTimeout is the timeout for writing one record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		BufferSize:   1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Observer is notified of each write result. *metrics.Collector satisfies it.
type Observer interface {
	RecordEvidence(result string)
}

// Recorder writes evidence records asynchronously.
type Recorder struct {
	storage    evidence.Storage
	config     *Config
	observer   Observer
	recordChan chan *evidence.Record
	wg         sync.WaitGroup
	logger     *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewRecorder creates a recorder and starts its worker. observer may be nil.
func NewRecorder(storage evidence.Storage, config *Config, observer Observer) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		observer:   observer,
		recordChan: make(chan *evidence.Record, config.BufferSize),
		logger:     slog.Default().With("component", "evidence.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("evidence recorder initialized",
		"buffer_size", config.BufferSize,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues a record for writing and reports whether it was accepted.
// ID and RecordedTime are filled in when empty. Record returns immediately;
// a full buffer or a closed recorder drops the record.
func (r *Recorder) Record(ctx context.Context, record *evidence.Record) bool {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.RecordedTime.IsZero() {
		record.RecordedTime = time.Now().UTC()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.WarnContext(ctx, "recorder closed, dropping evidence record",
			"record_id", record.ID,
			"request_id", record.RequestID,
		)
		r.observe(ResultDropped)
		return false
	}

	select {
	case r.recordChan <- record:
		r.logger.DebugContext(ctx, "evidence record enqueued",
			"record_id", record.ID,
			"request_id", record.RequestID,
		)
		return true
	default:
		r.logger.ErrorContext(ctx, "evidence buffer full, dropping record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"buffer_size", r.config.BufferSize,
		)
		r.observe(ResultDropped)
		return false
	}
}

// Pending returns the number of queued records.
func (r *Recorder) Pending() int {
	return len(r.recordChan)
}

// Close stops accepting records, writes everything already queued and
// waits for the worker to exit. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.recordChan)
	r.mu.Unlock()

	r.logger.Info("draining evidence recorder", "pending_count", len(r.recordChan))
	r.wg.Wait()
	r.logger.Info("evidence recorder shut down complete")
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for record := range r.recordChan {
		r.writeRecord(record)
	}
}

func (r *Recorder) writeRecord(record *evidence.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store evidence record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", evidence.NewRecorderError(record.ID, err),
		)
		r.observe(ResultFailed)
		return
	}
	r.observe(ResultStored)

	duration := time.Since(start)
	r.logger.Debug("evidence recorded",
		"record_id", record.ID,
		"request_id", record.RequestID,
		"outcome", record.Outcome,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow evidence write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

func (r *Recorder) observe(result string) {
	if r.observer != nil {
		r.observer.RecordEvidence(result)
	}
}
