package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:9000"
  read_timeout: "15s"

completion:
  model: "gpt-4o-mini"
  base_url: "http://localhost:4000/v1"
  timeout: "20s"

telemetry:
  logging:
    level: "debug"
    format: "text"

evidence:
  enabled: true
  backend: "sqlite"
  sqlite:
    path: "./evidence.db"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9000", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("expected read timeout 15s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Completion.Model != "gpt-4o-mini" {
		t.Errorf("expected model %q, got %q", "gpt-4o-mini", cfg.Completion.Model)
	}
	if cfg.Completion.Timeout != 20*time.Second {
		t.Errorf("expected completion timeout 20s, got %v", cfg.Completion.Timeout)
	}
	if cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("expected log format %q, got %q", "text", cfg.Telemetry.Logging.Format)
	}
	if cfg.Evidence.SQLite.Path != "./evidence.db" {
		t.Errorf("expected sqlite path %q, got %q", "./evidence.db", cfg.Evidence.SQLite.Path)
	}

	// Unset fields fall back to defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", DefaultWriteTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Completion.APIKeyEnv != DefaultAPIKeyEnv {
		t.Errorf("expected api key env %q, got %q", DefaultAPIKeyEnv, cfg.Completion.APIKeyEnv)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}

	if cfg.Completion.Model != DefaultModel {
		t.Errorf("expected model %q, got %q", DefaultModel, cfg.Completion.Model)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
telemetry:
  logging:
    level: "verbose"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Errors[0].Field != "telemetry.logging.level" {
		t.Errorf("expected field %q, got %q", "telemetry.logging.level", verr.Errors[0].Field)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
completion:
  model: "from-file"
`)

	t.Setenv("RELAY_COMPLETION_MODEL", "from-env")
	t.Setenv("RELAY_COMPLETION_TIMEOUT", "5s")
	t.Setenv("RELAY_LISTEN_ADDRESS", ":9090")
	t.Setenv("RELAY_LOG_LEVEL", "warn")
	t.Setenv("RELAY_METRICS_ENABLED", "false")
	t.Setenv("RELAY_EVIDENCE_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Completion.Model != "from-env" {
		t.Errorf("expected model %q, got %q", "from-env", cfg.Completion.Model)
	}
	if cfg.Completion.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Completion.Timeout)
	}
	if cfg.Server.ListenAddress != ":9090" {
		t.Errorf("expected listen address %q, got %q", ":9090", cfg.Server.ListenAddress)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected log level %q, got %q", "warn", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.IsEnabled() {
		t.Error("expected metrics to be disabled")
	}
	if !cfg.Evidence.Enabled {
		t.Error("expected evidence to be enabled")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidDurationIgnored(t *testing.T) {
	t.Setenv("RELAY_COMPLETION_TIMEOUT", "soon")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Completion.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, cfg.Completion.Timeout)
	}
}
