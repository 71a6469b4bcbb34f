package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/relay/pkg/completion"
	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/proxy/middleware"
	"mercator-hq/relay/pkg/telemetry/health"
	"mercator-hq/relay/pkg/telemetry/metrics"
)

type echoCompleter struct {
	calls int
	panic bool
}

func (e *echoCompleter) Complete(ctx context.Context, message string) (*completion.Result, error) {
	e.calls++
	if e.panic {
		panic("completer exploded")
	}
	return &completion.Result{Reply: &message, Model: "gpt-3.5-turbo"}, nil
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ListenAddress:       "127.0.0.1:0",
		ReadTimeout:         5 * time.Second,
		WriteTimeout:        5 * time.Second,
		ShutdownTimeout:     2 * time.Second,
		MaxRequestBodyBytes: 1024,
	}
}

func testMetricsConfig() config.MetricsConfig {
	enabled := true
	return config.MetricsConfig{Enabled: &enabled, Path: "/metrics", Namespace: "srvtest"}
}

func newTestServer(c *echoCompleter) *Server {
	return NewServer(testServerConfig(), testMetricsConfig(), Dependencies{
		Completer: c,
		Metrics:   metrics.NewCollector(testMetricsConfig(), prometheus.NewRegistry()),
		Health:    health.New(time.Second),
		Version:   "1.2.3",
	})
}

func TestServer_Routes(t *testing.T) {
	completer := &echoCompleter{}
	handler := newTestServer(completer).Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "generate", method: http.MethodPost, path: "/generate", body: `{"message":"ping"}`, wantStatus: http.StatusOK, wantBody: `{"reply":"ping"}`},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantBody: `{"status":"ok"}`},
		{name: "ready", method: http.MethodGet, path: "/ready", wantStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/version", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "generate wrong method", method: http.MethodGet, path: "/generate", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/v1/chat/completions", wantStatus: http.StatusNotFound},
		{name: "validation", method: http.MethodPost, path: "/generate", body: `{"message":1}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantBody != "" && strings.TrimSpace(rec.Body.String()) != tt.wantBody {
				t.Errorf("expected body %s, got %s", tt.wantBody, rec.Body.String())
			}
			if _, err := uuid.Parse(rec.Header().Get(middleware.RequestIDHeader)); err != nil {
				t.Errorf("expected generated request id header, got %q", rec.Header().Get(middleware.RequestIDHeader))
			}
		})
	}

	if completer.calls != 1 {
		t.Errorf("expected exactly one completion call, got %d", completer.calls)
	}
}

func TestServer_MetricsRecordRoutes(t *testing.T) {
	handler := newTestServer(&echoCompleter{}).Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `route="/health"`) {
		t.Errorf("expected /health in request metrics, got:\n%s", body)
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	disabled := false
	metricsCfg := config.MetricsConfig{Enabled: &disabled, Path: "/metrics"}
	srv := NewServer(testServerConfig(), metricsCfg, Dependencies{
		Completer: &echoCompleter{},
		Metrics:   metrics.NewCollector(metricsCfg, prometheus.NewRegistry()),
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 with metrics disabled, got %d", rec.Code)
	}
}

func TestServer_RecoversFromPanic(t *testing.T) {
	handler := newTestServer(&echoCompleter{panic: true}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"message":"x"}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Errorf("expected error envelope, got %v", body)
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv := newTestServer(&echoCompleter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !srv.IsRunning() || srv.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + srv.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	if err := srv.Start(context.Background()); err == nil {
		t.Error("expected error starting a running server")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	if srv.IsRunning() {
		t.Error("expected server to be stopped")
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestServer_StartInvalidAddress(t *testing.T) {
	cfg := testServerConfig()
	cfg.ListenAddress = "256.0.0.1:99999"
	srv := NewServer(cfg, testMetricsConfig(), Dependencies{Completer: &echoCompleter{}})

	if err := srv.Start(context.Background()); err == nil {
		t.Error("expected listen error")
	}
	if srv.IsRunning() {
		t.Error("server must not be running after a failed start")
	}
}

func TestServer_StartTLSMissingCertificate(t *testing.T) {
	cfg := testServerConfig()
	cfg.TLS.Enabled = true
	cfg.TLS.CertFile = t.TempDir() + "/missing.pem"
	cfg.TLS.KeyFile = t.TempDir() + "/missing.key"

	srv := NewServer(cfg, testMetricsConfig(), Dependencies{Completer: &echoCompleter{}})

	err := srv.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "TLS") {
		t.Errorf("expected TLS configuration error, got %v", err)
	}
	if srv.IsRunning() {
		t.Error("server must not be running after a failed start")
	}
}
