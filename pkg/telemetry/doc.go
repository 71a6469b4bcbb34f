// Package telemetry groups relay's observability subsystems.
//
// # Components
//
//   - logging: slog construction with request ID propagation and secret redaction
//   - metrics: Prometheus collectors for HTTP traffic, upstream calls and evidence
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: readiness checks and build information endpoints
//
// Each subsystem is configured from the telemetry section of the
// configuration file and is independent of the others. Metrics are on by
// default; tracing is off until an OTLP endpoint is configured.
package telemetry
