package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/proxy"
	"mercator-hq/relay/pkg/proxy/handlers"
	"mercator-hq/relay/pkg/proxy/middleware"
	tlsutil "mercator-hq/relay/pkg/security/tls"
	"mercator-hq/relay/pkg/telemetry/health"
	"mercator-hq/relay/pkg/telemetry/metrics"
	"mercator-hq/relay/pkg/telemetry/tracing"
)

// Dependencies are the components the server routes requests to.
type Dependencies struct {
	// Completer serves POST /generate. Required.
	Completer handlers.Completer

	// Metrics instruments every route and serves the metrics path.
	// Nil disables both.
	Metrics *metrics.Collector

	// Health serves GET /ready. Nil registers a checker with no checks.
	Health *health.Checker

	// Tracer enables otelhttp server spans when it is enabled.
	Tracer *tracing.Tracer

	// Build information served on GET /version.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the relay HTTP server.
type Server struct {
	config        config.ServerConfig
	metricsConfig config.MetricsConfig
	deps          Dependencies

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new relay server.
func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, deps Dependencies) *Server {
	if deps.Health == nil {
		deps.Health = health.New(0)
	}
	return &Server{
		config:        cfg,
		metricsConfig: metricsCfg,
		deps:          deps,
	}
}

// Start binds the listen address and serves until ctx is canceled or the
// server fails. Cancellation triggers a graceful Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	httpServer := &http.Server{
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	// Configure TLS if enabled
	if s.config.TLS.Enabled {
		tlsConfig, err := s.configureTLS(ctx)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = listener
	s.httpServer = httpServer
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting relay server",
			"address", listener.Addr().String(),
			"tls_enabled", s.config.TLS.Enabled,
		)

		var err error
		if s.config.TLS.Enabled {
			err = httpServer.ServeTLS(listener, "", "")
		} else {
			err = httpServer.Serve(listener)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by the configured shutdown timeout. Only the first call has an
// effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		httpServer := s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("relay server stopped")
	})

	return shutdownErr
}

// configureTLS loads the certificate and starts reloading it until ctx is
// canceled.
func (s *Server) configureTLS(ctx context.Context) (*tls.Config, error) {
	reloader := tlsutil.NewCertificateReloader(s.config.TLS.CertFile, s.config.TLS.KeyFile, s.config.TLS.ReloadInterval)
	if err := reloader.Start(ctx); err != nil {
		return nil, err
	}
	return tlsutil.NewServerConfig(s.config.TLS, reloader)
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	collector := s.deps.Metrics

	route := func(pattern, name string, h http.Handler) {
		mux.Handle(pattern, collector.InstrumentHandler(name, h))
	}

	maxBody := s.config.MaxRequestBodyBytes
	if maxBody <= 0 {
		maxBody = proxy.DefaultMaxRequestBodySize
	}

	route("POST /generate", "/generate", handlers.NewGenerateHandler(s.deps.Completer, maxBody))
	route("GET /health", "/health", handlers.NewHealthHandler())
	route("GET /ready", "/ready", s.deps.Health.ReadinessHandler())
	route("GET /version", "/version", health.VersionHandler(s.deps.Version, s.deps.Commit, s.deps.BuildTime))

	if collector.Enabled() && s.metricsConfig.Path != "" {
		mux.Handle("GET "+s.metricsConfig.Path, collector.Handler())
	}

	var handler http.Handler = mux

	if s.deps.Tracer.Enabled() {
		handler = otelhttp.NewHandler(handler, "relay.http",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
