package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "RELAY_TEST_DOTENV_NEW=from-file\nRELAY_TEST_DOTENV_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv("RELAY_TEST_DOTENV_SET", "from-env")
	t.Setenv("RELAY_TEST_DOTENV_NEW", "")
	os.Unsetenv("RELAY_TEST_DOTENV_NEW")

	loaded, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if !loaded {
		t.Error("expected file to be reported as loaded")
	}

	if got := os.Getenv("RELAY_TEST_DOTENV_NEW"); got != "from-file" {
		t.Errorf("expected %q, got %q", "from-file", got)
	}
	if got := os.Getenv("RELAY_TEST_DOTENV_SET"); got != "from-env" {
		t.Errorf("existing variable overwritten: got %q", got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if loaded {
		t.Error("expected loaded == false for missing file")
	}
}
