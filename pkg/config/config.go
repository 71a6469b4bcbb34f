package config

import "time"

// Config is the root configuration structure for relay.
// It is loaded from a YAML file, completed with defaults and then
// overridden from RELAY_* environment variables.
type Config struct {
	// Server contains HTTP listener settings.
	Server ServerConfig `yaml:"server"`

	// Completion contains settings for the upstream chat-completion API.
	Completion CompletionConfig `yaml:"completion"`

	// Telemetry contains logging, metrics, and tracing settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Evidence contains settings for the completion evidence trail.
	Evidence EvidenceConfig `yaml:"evidence"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the HTTP server binds to.
	// Default: "127.0.0.1:8000"
	ListenAddress string `yaml:"listen_address" validate:"required,hostname_port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"gte=0"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// It must leave room for the upstream completion call.
	// Default: 90s
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`

	// IdleTimeout is the maximum time to wait for the next request on a keep-alive connection.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"gte=0"`

	// ShutdownTimeout bounds the graceful drain of in-flight requests.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// MaxHeaderBytes is the maximum size of request headers.
	// Default: 1 MiB
	MaxHeaderBytes int `yaml:"max_header_bytes" validate:"gte=0"`

	// MaxRequestBodyBytes caps the /generate request body.
	// Default: 10 MiB
	MaxRequestBodyBytes int64 `yaml:"max_request_body_bytes" validate:"gte=0"`

	// TLS configures optional TLS termination.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains server TLS settings.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM certificate (chain) path.
	CertFile string `yaml:"cert_file" validate:"required_if=Enabled true"`

	// KeyFile is the PEM private key path.
	KeyFile string `yaml:"key_file" validate:"required_if=Enabled true"`

	// MinVersion is the minimum TLS version: "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version" validate:"oneof=1.2 1.3"`

	// ReloadInterval is how often the certificate files are checked for
	// changes. Zero disables reloading.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval" validate:"gte=0"`
}

// CompletionConfig contains settings for the upstream completion API.
type CompletionConfig struct {
	// Model is the fixed model identifier sent with every completion call.
	// Default: "gpt-3.5-turbo"
	Model string `yaml:"model" validate:"required"`

	// BaseURL is the OpenAI-compatible API base URL.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// APIKeyEnv is the environment variable holding the API credential.
	// The variable is read on every completion call.
	// Default: "OPENAI_API_KEY"
	APIKeyEnv string `yaml:"api_key_env" validate:"required"`

	// Organization is an optional OpenAI organization ID.
	Organization string `yaml:"organization"`

	// Timeout bounds a single upstream call. No retries are performed.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout" validate:"min=1s,max=10m"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configures OpenTelemetry tracing.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format" validate:"oneof=json text"`

	// AddSource adds the source file and line to each record.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys and bearer tokens in log output.
	// Default: true
	RedactSecrets *bool `yaml:"redact_secrets"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled toggles metric collection and the metrics endpoint.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path serving metrics.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "relay"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets are histogram buckets in seconds for HTTP requests.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`

	// UpstreamLatencyBuckets are histogram buckets in seconds for upstream calls.
	UpstreamLatencyBuckets []float64 `yaml:"upstream_latency_buckets"`
}

// IsEnabled reports whether metrics are enabled.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled toggles tracing.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// SampleRatio is the fraction of traces sampled, 0.0 to 1.0.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "relay"
	ServiceName string `yaml:"service_name"`

	// ExportTimeout bounds a single export batch.
	// Default: 10s
	ExportTimeout time.Duration `yaml:"export_timeout"`
}

// EvidenceConfig contains evidence trail settings.
type EvidenceConfig struct {
	// Enabled toggles evidence recording.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend is the storage backend: "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend" validate:"oneof=memory sqlite"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// BufferSize is the capacity of the async recording channel.
	// Default: 1000
	BufferSize int `yaml:"buffer_size" validate:"gte=0"`

	// WriteTimeout bounds a single storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Retention configures pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite settings.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/evidence.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns" validate:"gte=0"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains evidence retention settings.
type RetentionConfig struct {
	// Days is how long records are kept.
	// Default: 30
	Days int `yaml:"days" validate:"gte=0,lte=3650"`

	// MaxRecords caps the number of stored records. Zero means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records" validate:"gte=0"`

	// Schedule is the cron expression for pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}
