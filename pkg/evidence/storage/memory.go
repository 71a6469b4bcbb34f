package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"mercator-hq/relay/pkg/evidence"
)

// MemoryStorage implements evidence.Storage using an in-memory map.
// Records are lost on restart.
type MemoryStorage struct {
	records map[string]*evidence.Record
	closed  bool
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*evidence.Record),
	}
}

// Store persists a copy of the record.
func (s *MemoryStorage) Store(ctx context.Context, record *evidence.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return evidence.NewStorageError("memory", "store", evidence.ErrClosed)
	}

	recordCopy := *record
	s.records[record.ID] = &recordCopy
	return nil
}

// Query retrieves evidence records matching the query filters.
func (s *MemoryStorage) Query(ctx context.Context, query *evidence.Query) ([]*evidence.Record, error) {
	s.mu.RLock()
	results := make([]*evidence.Record, 0, len(s.records))
	for _, record := range s.records {
		if matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(results, func(a, b *evidence.Record) int {
		c := a.RequestTime.Compare(b.RequestTime)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !query.Ascending {
			c = -c
		}
		return c
	})

	start := min(query.Offset, len(results))
	results = results[start:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of evidence records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *evidence.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesQuery(record, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes evidence records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *evidence.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.records {
		if matchesQuery(record, query) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Ping reports an error once the storage is closed.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return evidence.NewStorageError("memory", "ping", evidence.ErrClosed)
	}
	return nil
}

// Close drops all records.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*evidence.Record)
	s.closed = true
	return nil
}

// Size returns the number of records in storage.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func matchesQuery(record *evidence.Record, query *evidence.Query) bool {
	if query.StartTime != nil && record.RequestTime.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.RequestTime.After(*query.EndTime) {
		return false
	}
	if query.Model != "" && record.Model != query.Model {
		return false
	}
	if query.Outcome != "" && record.Outcome != query.Outcome {
		return false
	}
	if len(query.IDs) > 0 && !slices.Contains(query.IDs, record.ID) {
		return false
	}
	return true
}
