package secrets

import (
	"context"
	"errors"
	"testing"
)

func TestEnvProvider_GetSecret(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	provider := NewEnvProvider("")

	tests := []struct {
		name       string
		secretName string
	}{
		{name: "env var name", secretName: "OPENAI_API_KEY"},
		{name: "hyphenated name", secretName: "openai-api-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := provider.GetSecret(context.Background(), tt.secretName)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if value != "sk-test" {
				t.Errorf("expected value %q, got %q", "sk-test", value)
			}
		})
	}
}

func TestEnvProvider_ReadsOnEveryCall(t *testing.T) {
	provider := NewEnvProvider("RELAY_")

	t.Setenv("RELAY_ROTATING_KEY", "first")
	first, err := provider.GetSecret(context.Background(), "rotating-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("RELAY_ROTATING_KEY", "second")
	second, err := provider.GetSecret(context.Background(), "rotating-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != "first" || second != "second" {
		t.Errorf("expected rotation to be visible, got %q then %q", first, second)
	}
}

func TestEnvProvider_NotFound(t *testing.T) {
	t.Setenv("RELAY_EMPTY_KEY", "")

	provider := NewEnvProvider("RELAY_")

	_, err := provider.GetSecret(context.Background(), "empty-key")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestStaticProvider(t *testing.T) {
	provider := NewStaticProvider(map[string]string{"OPENAI_API_KEY": "sk-static"})

	value, err := provider.GetSecret(context.Background(), "OPENAI_API_KEY")
	if err != nil || value != "sk-static" {
		t.Fatalf("GetSecret() = %q, %v", value, err)
	}

	provider.Set("OPENAI_API_KEY", "")
	if _, err := provider.GetSecret(context.Background(), "OPENAI_API_KEY"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound after removal, got %v", err)
	}

	if provider.Provider() != "static" {
		t.Errorf("expected provider name %q, got %q", "static", provider.Provider())
	}
}
