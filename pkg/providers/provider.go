package providers

import "context"

// Provider is implemented by upstream chat-completion adapters.
//
// Implementations must respect context cancellation and must not retry
// failed calls.
type Provider interface {
	// SendCompletion sends a completion request and returns the normalized
	// response, or one of the typed errors declared in this package.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// GetName returns the provider name used in logs, metrics, and evidence.
	GetName() string

	// Close releases idle connections held by the provider.
	Close() error
}
