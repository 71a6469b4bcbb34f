package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultListenAddress       = "127.0.0.1:8000"
	DefaultReadTimeout         = 30 * time.Second
	DefaultWriteTimeout        = 90 * time.Second
	DefaultIdleTimeout         = 120 * time.Second
	DefaultShutdownTimeout     = 30 * time.Second
	DefaultMaxHeaderBytes      = 1 << 20
	DefaultMaxRequestBodyBytes = 10 << 20
	DefaultTLSMinVersion       = "1.3"
	DefaultTLSReloadInterval   = 5 * time.Minute

	DefaultModel     = "gpt-3.5-turbo"
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultTimeout   = 60 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "relay"

	DefaultTracingSampleRatio   = 1.0
	DefaultTracingServiceName   = "relay"
	DefaultTracingExportTimeout = 10 * time.Second

	DefaultEvidenceBackend      = "memory"
	DefaultEvidenceBufferSize   = 1000
	DefaultEvidenceWriteTimeout = 5 * time.Second
	DefaultSQLitePath           = "data/evidence.db"
	DefaultSQLiteMaxOpenConns   = 10
	DefaultSQLiteBusyTimeout    = 5 * time.Second
	DefaultRetentionDays        = 30
	DefaultRetentionSchedule    = "0 3 * * *"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default.
// Explicitly set values are left untouched.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyCompletionDefaults(&cfg.Completion)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyEvidenceDefaults(&cfg.Evidence)
}

func applyServerDefaults(s *ServerConfig) {
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.MaxHeaderBytes == 0 {
		s.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if s.MaxRequestBodyBytes == 0 {
		s.MaxRequestBodyBytes = DefaultMaxRequestBodyBytes
	}
	if s.TLS.MinVersion == "" {
		s.TLS.MinVersion = DefaultTLSMinVersion
	}
	if s.TLS.ReloadInterval == 0 {
		s.TLS.ReloadInterval = DefaultTLSReloadInterval
	}
}

func applyCompletionDefaults(c *CompletionConfig) {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLogLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLogFormat
	}
	if t.Logging.RedactSecrets == nil {
		t.Logging.RedactSecrets = boolPtr(true)
	}

	if t.Metrics.Enabled == nil {
		t.Metrics.Enabled = boolPtr(true)
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(t.Metrics.RequestDurationBuckets) == 0 {
		t.Metrics.RequestDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60}
	}
	if len(t.Metrics.UpstreamLatencyBuckets) == 0 {
		t.Metrics.UpstreamLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120}
	}

	if t.Tracing.SampleRatio == 0 {
		t.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingServiceName
	}
	if t.Tracing.ExportTimeout == 0 {
		t.Tracing.ExportTimeout = DefaultTracingExportTimeout
	}
}

func applyEvidenceDefaults(e *EvidenceConfig) {
	if e.Backend == "" {
		e.Backend = DefaultEvidenceBackend
	}
	if e.BufferSize == 0 {
		e.BufferSize = DefaultEvidenceBufferSize
	}
	if e.WriteTimeout == 0 {
		e.WriteTimeout = DefaultEvidenceWriteTimeout
	}
	if e.SQLite.Path == "" {
		e.SQLite.Path = DefaultSQLitePath
	}
	if e.SQLite.MaxOpenConns == 0 {
		e.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if e.SQLite.BusyTimeout == 0 {
		e.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if e.Retention.Days == 0 {
		e.Retention.Days = DefaultRetentionDays
	}
	if e.Retention.Schedule == "" {
		e.Retention.Schedule = DefaultRetentionSchedule
	}
}

func boolPtr(b bool) *bool {
	return &b
}
