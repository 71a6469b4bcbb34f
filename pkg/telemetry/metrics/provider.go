package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/relay/pkg/config"
)

// ProviderMetrics tracks upstream completion calls.
type ProviderMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

// NewProviderMetrics creates and registers upstream metrics.
func NewProviderMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "requests_total",
				Help:      "Total number of upstream completion calls by outcome",
			},
			[]string{"provider", "model", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "latency_seconds",
				Help:      "Upstream completion call latency in seconds",
				Buckets:   cfg.UpstreamLatencyBuckets,
			},
			[]string{"provider", "model"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "provider",
				Name:      "tokens_total",
				Help:      "Tokens reported by the upstream",
			},
			[]string{"provider", "model", "type"},
		),
	}

	registry.MustRegister(pm.requests, pm.latency, pm.tokens)
	return pm
}

// RecordCall records one upstream call.
func (pm *ProviderMetrics) RecordCall(provider, model, outcome string, latency time.Duration) {
	pm.requests.WithLabelValues(provider, model, outcome).Inc()
	pm.latency.WithLabelValues(provider, model).Observe(latency.Seconds())
}

// RecordTokens records prompt and completion token counts.
func (pm *ProviderMetrics) RecordTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		pm.tokens.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		pm.tokens.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
}
