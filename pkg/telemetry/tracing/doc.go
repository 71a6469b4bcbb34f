// Package tracing sets up OpenTelemetry tracing for relay.
//
// When tracing is disabled New returns a Tracer backed by a no-op provider,
// so instrumented code never checks whether tracing is on. When enabled,
// spans are sampled parent-based with a trace-ID ratio and exported in
// batches over OTLP gRPC. The provider and a W3C trace-context propagator
// are installed globally so otelhttp instrumentation picks them up.
//
//	tracer, err := tracing.New(cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "completion.complete")
//	defer span.End()
package tracing
