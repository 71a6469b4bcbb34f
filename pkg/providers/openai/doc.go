// Package openai implements providers.Provider for OpenAI-compatible
// chat-completion APIs using github.com/sashabaranov/go-openai.
//
// The API credential is resolved through a secrets.SecretProvider on every
// call and a go-openai client is built around it for that call only. All
// clients share one *http.Client, so TCP and TLS connections are pooled
// across calls even though credentials are not cached.
//
// # Basic Usage
//
//	p, err := openai.NewProvider(openai.Config{
//	    BaseURL:      "https://api.openai.com/v1",
//	    APIKeySecret: "OPENAI_API_KEY",
//	    Timeout:      60 * time.Second,
//	}, secrets.NewEnvProvider(""))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	resp, err := p.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model:    "gpt-3.5-turbo",
//	    Messages: []providers.Message{{Role: providers.RoleUser, Content: "Hello!"}},
//	})
//
// Upstream failures are translated into the typed errors of package
// providers. Calls are never retried.
package openai
