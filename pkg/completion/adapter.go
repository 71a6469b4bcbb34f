package completion

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/relay/pkg/evidence"
	"mercator-hq/relay/pkg/evidence/recorder"
	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/telemetry/logging"
	"mercator-hq/relay/pkg/telemetry/metrics"
	"mercator-hq/relay/pkg/telemetry/tracing"
)

// SpanName is the name of the span wrapping each completion.
const SpanName = "completion.complete"

// Recorder accepts evidence records without blocking.
type Recorder interface {
	Record(ctx context.Context, record *evidence.Record) bool
}

// Result is the outcome of a successful completion.
type Result struct {
	// Reply is the first choice's text, or nil when the upstream returned
	// empty content.
	Reply *string

	// Model is the model reported by the upstream.
	Model string

	// FinishReason is why generation stopped.
	FinishReason string

	// Usage is the token usage reported by the upstream.
	Usage providers.TokenUsage
}

// Adapter sends single-message completions to a provider.
type Adapter struct {
	provider providers.Provider
	model    string
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	recorder Recorder
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMetrics records upstream call metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *Adapter) { a.metrics = c }
}

// WithTracer wraps each completion in a span.
func WithTracer(t *tracing.Tracer) Option {
	return func(a *Adapter) { a.tracer = t }
}

// WithRecorder submits an evidence record for each completion.
func WithRecorder(r Recorder) Option {
	return func(a *Adapter) { a.recorder = r }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New creates an adapter that always requests model from provider.
func New(provider providers.Provider, model string, opts ...Option) *Adapter {
	a := &Adapter{
		provider: provider,
		model:    model,
		tracer:   tracing.Noop(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "completion")
	return a
}

// Model returns the model requested for every completion.
func (a *Adapter) Model() string {
	return a.model
}

// Complete sends message as the only user message and returns the reply.
// The message is forwarded unmodified, including the empty string.
func (a *Adapter) Complete(ctx context.Context, message string) (*Result, error) {
	provider := a.provider.GetName()

	ctx, span := a.tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.provider", provider),
			attribute.String("llm.request.model", a.model),
		),
	)
	defer span.End()

	req := &providers.CompletionRequest{
		Model: a.model,
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: message},
		},
		RequestID: logging.GetRequestID(ctx),
	}

	start := time.Now()
	resp, err := a.provider.SendCompletion(ctx, req)
	latency := time.Since(start)

	record := &evidence.Record{
		RequestID:       req.RequestID,
		RequestTime:     start.UTC(),
		Model:           a.model,
		Provider:        provider,
		PromptHash:      recorder.HashText(message),
		ProviderLatency: latency,
	}

	if err != nil {
		code := ErrorCode(err)

		span.SetAttributes(attribute.String("completion.outcome", code))
		tracing.SetStatus(span, err)
		a.metrics.RecordProviderCall(provider, a.model, code, latency)

		record.Outcome = evidence.OutcomeError
		record.ErrorCode = code
		a.record(ctx, record)

		a.logger.WarnContext(ctx, "completion failed",
			"model", a.model,
			"code", code,
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	result := &Result{
		Model:        resp.Model,
		FinishReason: resp.FinishReason,
		Usage:        resp.Usage,
	}
	if resp.Content != "" {
		content := resp.Content
		result.Reply = &content
	}

	span.SetAttributes(
		attribute.String("completion.outcome", OutcomeSuccess),
		attribute.String("llm.response.model", resp.Model),
		attribute.String("llm.response.finish_reason", resp.FinishReason),
	)
	tracing.SetTokenAttributes(span, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	tracing.SetStatus(span, nil)

	a.metrics.RecordProviderCall(provider, a.model, OutcomeSuccess, latency)
	a.metrics.RecordTokens(provider, a.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	record.Outcome = evidence.OutcomeSuccess
	record.ProviderModel = resp.Model
	record.ReplyHash = recorder.HashReply(result.Reply)
	record.FinishReason = resp.FinishReason
	record.PromptTokens = resp.Usage.PromptTokens
	record.CompletionTokens = resp.Usage.CompletionTokens
	record.TotalTokens = resp.Usage.TotalTokens
	a.record(ctx, record)

	a.logger.InfoContext(ctx, "completion succeeded",
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"latency_ms", latency.Milliseconds(),
	)

	return result, nil
}

func (a *Adapter) record(ctx context.Context, record *evidence.Record) {
	if a.recorder == nil {
		return
	}
	a.recorder.Record(ctx, record)
}
