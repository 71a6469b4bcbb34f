// Package metrics provides Prometheus metrics for relay.
//
// # Metrics
//
//   - relay_http_requests_total: HTTP requests by route, method, and status code
//   - relay_http_request_duration_seconds: HTTP request duration by route
//   - relay_http_requests_in_flight: requests currently being served
//   - relay_provider_requests_total: upstream calls by provider, model, and outcome
//   - relay_provider_latency_seconds: upstream call latency by provider and model
//   - relay_provider_tokens_total: tokens reported upstream by provider, model, and type
//   - relay_evidence_records_total: evidence records by result (stored, dropped, failed)
//
// Go runtime and process collectors are registered alongside.
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle("GET /metrics", collector.Handler())
//	mux.Handle("POST /generate", collector.InstrumentHandler("/generate", handler))
//
// When metrics are disabled every Record method is a no-op.
package metrics
