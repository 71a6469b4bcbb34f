package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mercator-hq/relay/pkg/evidence"
	"mercator-hq/relay/pkg/evidence/storage"
)

var now = time.Date(2026, 6, 15, 3, 0, 0, 0, time.UTC)

// seedAges stores one record per age, in days before now.
func seedAges(t *testing.T, s evidence.Storage, ages ...int) {
	t.Helper()
	for i, days := range ages {
		err := s.Store(context.Background(), &evidence.Record{
			ID:          fmt.Sprintf("rec-%02d", i),
			RequestTime: now.AddDate(0, 0, -days),
			Model:       "gpt-3.5-turbo",
			Outcome:     evidence.OutcomeSuccess,
		})
		if err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}
}

func newTestPruner(s evidence.Storage, cfg *Config) *Pruner {
	p := NewPruner(s, cfg)
	p.now = func() time.Time { return now }
	return p
}

func TestPruner_Prune(t *testing.T) {
	tests := []struct {
		name          string
		config        *Config
		ages          []int
		wantDeleted   int64
		wantRemaining []string
	}{
		{
			name:          "by age",
			config:        &Config{RetentionDays: 30},
			ages:          []int{1, 10, 31, 90},
			wantDeleted:   2,
			wantRemaining: []string{"rec-00", "rec-01"},
		},
		{
			name:          "by count keeps newest",
			config:        &Config{MaxRecords: 2},
			ages:          []int{5, 1, 3, 2},
			wantDeleted:   2,
			wantRemaining: []string{"rec-01", "rec-03"},
		},
		{
			name:          "age then count",
			config:        &Config{RetentionDays: 30, MaxRecords: 1},
			ages:          []int{2, 40, 1},
			wantDeleted:   2,
			wantRemaining: []string{"rec-02"},
		},
		{
			name:          "within limits",
			config:        &Config{RetentionDays: 30, MaxRecords: 10},
			ages:          []int{1, 2},
			wantDeleted:   0,
			wantRemaining: []string{"rec-00", "rec-01"},
		},
		{
			name:          "disabled",
			config:        &Config{},
			ages:          []int{400},
			wantDeleted:   0,
			wantRemaining: []string{"rec-00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStorage()
			seedAges(t, s, tt.ages...)

			deleted, err := newTestPruner(s, tt.config).Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("expected %d deleted, got %d", tt.wantDeleted, deleted)
			}

			records, _ := s.Query(context.Background(), &evidence.Query{})
			remaining := map[string]bool{}
			for _, r := range records {
				remaining[r.ID] = true
			}
			if len(remaining) != len(tt.wantRemaining) {
				t.Fatalf("expected %d remaining, got %d", len(tt.wantRemaining), len(remaining))
			}
			for _, id := range tt.wantRemaining {
				if !remaining[id] {
					t.Errorf("expected %q to remain", id)
				}
			}
		})
	}
}

func TestPruner_PruneClosedStorage(t *testing.T) {
	s := storage.NewMemoryStorage()
	p := newTestPruner(s, &Config{RetentionDays: 1})

	// Memory storage deletes nothing after close but does not fail.
	s.Close()
	if _, err := p.Prune(context.Background()); err != nil {
		t.Errorf("Prune() error = %v", err)
	}
}
