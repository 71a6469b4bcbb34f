package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result. A missing file is
// not an error: the defaults form a complete configuration on their own.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention RELAY_SECTION_FIELD (e.g., RELAY_COMPLETION_MODEL) and always
// take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file (if present)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func readConfigFile(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("configuration file not found, using defaults", "path", path)
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies RELAY_* environment variable overrides.
// Unparseable values are logged and ignored.
func applyEnvOverrides(cfg *Config) {
	envString("RELAY_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("RELAY_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("RELAY_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("RELAY_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	envBool("RELAY_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	envString("RELAY_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	envString("RELAY_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)

	envString("RELAY_COMPLETION_MODEL", &cfg.Completion.Model)
	envString("RELAY_COMPLETION_BASE_URL", &cfg.Completion.BaseURL)
	envString("RELAY_COMPLETION_API_KEY_ENV", &cfg.Completion.APIKeyEnv)
	envString("RELAY_COMPLETION_ORGANIZATION", &cfg.Completion.Organization)
	envDuration("RELAY_COMPLETION_TIMEOUT", &cfg.Completion.Timeout)

	envString("RELAY_LOG_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("RELAY_LOG_FORMAT", &cfg.Telemetry.Logging.Format)

	if val := os.Getenv("RELAY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		} else {
			slog.Warn("ignoring invalid environment override", "name", "RELAY_METRICS_ENABLED", "value", val)
		}
	}

	envBool("RELAY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("RELAY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)

	envBool("RELAY_EVIDENCE_ENABLED", &cfg.Evidence.Enabled)
	envString("RELAY_EVIDENCE_BACKEND", &cfg.Evidence.Backend)
	envString("RELAY_EVIDENCE_SQLITE_PATH", &cfg.Evidence.SQLite.Path)
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

func envDuration(name string, dst *time.Duration) {
	val := os.Getenv(name)
	if val == "" {
		return
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("ignoring invalid environment override", "name", name, "value", val)
		return
	}
	*dst = d
}

func envBool(name string, dst *bool) {
	val := os.Getenv(name)
	if val == "" {
		return
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		slog.Warn("ignoring invalid environment override", "name", name, "value", val)
		return
	}
	*dst = b
}
