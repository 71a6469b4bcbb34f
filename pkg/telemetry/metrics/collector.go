package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/relay/pkg/config"
)

// Collector owns the Prometheus registry and every relay metric.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	providerMetrics *ProviderMetrics
	evidenceRecords *prometheus.CounterVec
}

// NewCollector creates a collector and registers all metrics with registry.
// A nil registry gets a fresh one, so tests never share state through the
// global default registry.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = prometheus.DefBuckets
	}
	if len(cfg.UpstreamLatencyBuckets) == 0 {
		cfg.UpstreamLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120}
	}

	c := &Collector{
		config:          cfg,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(cfg, registry),
		providerMetrics: NewProviderMetrics(cfg, registry),
		evidenceRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "evidence_records_total",
				Help:      "Evidence records by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		c.evidenceRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.IsEnabled()
}

// RecordHTTPRequest records a served HTTP request.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	c.requestMetrics.Record(route, method, status, duration)
}

// RecordProviderCall records one upstream completion call.
//
// outcome is "success" or an error classification such as "auth",
// "rate_limit", "timeout", "credential", "bad_response", or "error".
func (c *Collector) RecordProviderCall(provider, model, outcome string, latency time.Duration) {
	if !c.Enabled() {
		return
	}
	c.providerMetrics.RecordCall(provider, model, outcome, latency)
}

// RecordTokens records token usage reported by the upstream.
func (c *Collector) RecordTokens(provider, model string, prompt, completion int) {
	if !c.Enabled() {
		return
	}
	c.providerMetrics.RecordTokens(provider, model, prompt, completion)
}

// RecordEvidence records the result of an evidence write: "stored",
// "dropped", or "failed".
func (c *Collector) RecordEvidence(result string) {
	if !c.Enabled() {
		return
	}
	c.evidenceRecords.WithLabelValues(result).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
