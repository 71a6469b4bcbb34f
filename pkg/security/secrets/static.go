package secrets

import (
	"context"
	"fmt"
	"sync"
)

// StaticProvider serves secrets from an in-memory map.
type StaticProvider struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewStaticProvider creates a provider holding a copy of values.
func NewStaticProvider(values map[string]string) *StaticProvider {
	secrets := make(map[string]string, len(values))
	for k, v := range values {
		secrets[k] = v
	}
	return &StaticProvider{secrets: secrets}
}

// GetSecret returns the stored value for name.
func (p *StaticProvider) GetSecret(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value := p.secrets[name]
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}

// Set stores or replaces a secret. An empty value removes it.
func (p *StaticProvider) Set(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value == "" {
		delete(p.secrets, name)
		return
	}
	p.secrets[name] = value
}

// Provider returns the provider name.
func (p *StaticProvider) Provider() string {
	return "static"
}
