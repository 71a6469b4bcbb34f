// Package server provides the relay HTTP server.
//
// The server routes
//
//	POST /generate   one chat completion per request
//	GET  /health     constant liveness payload
//	GET  /ready      readiness checks (evidence storage)
//	GET  /version    build information
//	GET  /metrics    Prometheus exposition, when metrics are enabled
//
// Every route is instrumented by the metrics collector. The handler chain is
//
//	Recovery(RequestID(Logging(otelhttp(mux))))
//
// with the otelhttp layer present only when tracing is enabled.
//
// # Basic Usage
//
//	srv := server.NewServer(cfg.Server, cfg.Telemetry.Metrics, server.Dependencies{
//	    Completer: adapter,
//	    Metrics:   collector,
//	    Health:    checker,
//	    Tracer:    tracer,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is canceled and then shuts down gracefully,
// waiting up to ServerConfig.ShutdownTimeout for in-flight requests.
package server
