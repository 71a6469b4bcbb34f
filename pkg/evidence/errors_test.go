package evidence

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "storage",
			err:     NewStorageError("sqlite", "store", cause),
			wantMsg: "backend=sqlite, operation=store",
		},
		{
			name:    "recorder",
			err:     NewRecorderError("rec-1", cause),
			wantMsg: "record_id=rec-1",
		},
		{
			name:    "recorder without id",
			err:     NewRecorderError("", cause),
			wantMsg: "recorder error: disk full",
		},
		{
			name:    "retention",
			err:     NewRetentionError(30, cause),
			wantMsg: "retention_days=30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, cause) {
				t.Errorf("expected error to wrap cause")
			}
			if !strings.Contains(tt.err.Error(), tt.wantMsg) {
				t.Errorf("expected message to contain %q, got %q", tt.wantMsg, tt.err.Error())
			}
		})
	}
}
