package secrets

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned when a provider has no value for a secret.
var ErrSecretNotFound = errors.New("secret not found")

// SecretProvider retrieves secrets from a backend.
type SecretProvider interface {
	// GetSecret retrieves a secret by name. An absent or empty value
	// returns an error wrapping ErrSecretNotFound.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name (env, static).
	Provider() string
}
