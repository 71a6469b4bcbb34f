package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mercator-hq/relay/pkg/proxy/types"
	"mercator-hq/relay/pkg/telemetry/logging"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantReused bool
	}{
		{name: "generated", header: "", wantReused: false},
		{name: "client supplied", header: "client-id-123", wantReused: true},
		{name: "too long", header: strings.Repeat("a", MaxRequestIDLength+1), wantReused: false},
		{name: "control characters", header: "bad\tid", wantReused: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = logging.GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			echoed := rec.Header().Get(RequestIDHeader)
			if echoed != seen {
				t.Errorf("expected response header %q to match context %q", echoed, seen)
			}

			if tt.wantReused {
				if seen != tt.header {
					t.Errorf("expected request id %q, got %q", tt.header, seen)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("expected generated UUID, got %q", seen)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if _, ok := body["reply"]; ok {
		t.Error("error response must not contain reply")
	}

	var detail types.ErrorDetail
	if err := json.Unmarshal(body["error"], &detail); err != nil {
		t.Fatalf("invalid error detail: %v", err)
	}
	if detail.Type != types.ErrorTypeServerError || detail.Code != types.CodeInternalError {
		t.Errorf("unexpected error detail %+v", detail)
	}
	if strings.Contains(detail.Message, "boom") {
		t.Error("panic value must not be exposed to the client")
	}
}

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rec.Code)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", status: http.StatusUnprocessableEntity, wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := logging.New(logging.Config{Level: "info", Format: "json", Writer: &buf})
			if err != nil {
				t.Fatalf("logging.New() error = %v", err)
			}
			prev := slog.Default()
			slog.SetDefault(logger.Logger)
			defer slog.SetDefault(prev)

			handler := RequestIDMiddleware(LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if GetStartTime(r.Context()).IsZero() {
					t.Error("expected start time in context")
				}
				w.WriteHeader(tt.status)
			})))

			req := httptest.NewRequest(http.MethodPost, "/generate", nil)
			req.Header.Set(RequestIDHeader, "log-test-id")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
				t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("expected level %q, got %v", tt.wantLevel, entry["level"])
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("expected status %d, got %v", tt.status, entry["status"])
			}
			if entry["request_id"] != "log-test-id" {
				t.Errorf("expected request_id from context, got %v", entry["request_id"])
			}
		})
	}
}
