package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	gopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/security/secrets"
)

// DefaultName is the provider name used when Config.Name is empty.
const DefaultName = "openai"

// Config configures an OpenAI-compatible provider.
type Config struct {
	// Name identifies the provider in logs, metrics, and errors.
	Name string

	// BaseURL is the API base URL, including the version path.
	BaseURL string

	// Organization is sent as the OpenAI-Organization header when set.
	Organization string

	// APIKeySecret is the secret name resolved on every call.
	APIKeySecret string

	// Timeout bounds a single call.
	Timeout time.Duration
}

// Provider sends chat completions to an OpenAI-compatible API.
type Provider struct {
	config     Config
	secrets    secrets.SecretProvider
	httpClient *http.Client
	logger     *slog.Logger
}

// NewProvider creates a provider. The secret provider is consulted on every
// SendCompletion call.
func NewProvider(cfg Config, sp secrets.SecretProvider) (*Provider, error) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.BaseURL == "" {
		return nil, &providers.ConfigError{Provider: cfg.Name, Field: "base_url", Message: "base URL is required"}
	}
	if cfg.APIKeySecret == "" {
		return nil, &providers.ConfigError{Provider: cfg.Name, Field: "api_key_secret", Message: "credential name is required"}
	}
	if cfg.Timeout <= 0 {
		return nil, &providers.ConfigError{Provider: cfg.Name, Field: "timeout", Message: "timeout must be positive"}
	}
	if sp == nil {
		return nil, &providers.ConfigError{Provider: cfg.Name, Field: "secrets", Message: "secret provider is required"}
	}

	return &Provider{
		config:     cfg,
		secrets:    sp,
		httpClient: newHTTPClient(),
		logger:     slog.Default().With("component", "provider", "provider", cfg.Name),
	}, nil
}

// newHTTPClient builds the pooled client shared by every per-call go-openai
// client. Deadlines come from the request context, not from the client.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: otelhttp.NewTransport(transport)}
}

// GetName returns the provider name.
func (p *Provider) GetName() string {
	return p.config.Name
}

// Close releases idle pooled connections.
func (p *Provider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// SendCompletion resolves the credential, sends req upstream, and returns
// the first choice. It never retries.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	apiKey, err := p.secrets.GetSecret(ctx, p.config.APIKeySecret)
	if err != nil {
		return nil, &providers.CredentialError{Provider: p.config.Name, Name: p.config.APIKeySecret, Cause: err}
	}

	client := gopenai.NewClientWithConfig(p.clientConfig(apiKey))

	callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	p.logger.DebugContext(ctx, "sending completion request",
		"request_id", req.RequestID,
		"model", req.Model,
		"messages", len(req.Messages),
	)

	resp, err := client.CreateChatCompletion(callCtx, toChatRequest(req))
	if err != nil {
		return nil, p.translateError(callCtx, err)
	}

	if len(resp.Choices) == 0 {
		return nil, &providers.ParseError{Provider: p.config.Name, Message: "response contained no choices"}
	}

	return fromChatResponse(resp), nil
}

func (p *Provider) clientConfig(apiKey string) gopenai.ClientConfig {
	cfg := gopenai.DefaultConfig(apiKey)
	cfg.BaseURL = p.config.BaseURL
	cfg.OrgID = p.config.Organization
	cfg.HTTPClient = contentDoer{client: p.httpClient}
	return cfg
}

func toChatRequest(req *providers.CompletionRequest) gopenai.ChatCompletionRequest {
	messages := make([]gopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, gopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return gopenai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
}

func fromChatResponse(resp gopenai.ChatCompletionResponse) *providers.CompletionResponse {
	choice := resp.Choices[0]
	return &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
}

// translateError maps go-openai and transport errors to provider errors.
func (p *Provider) translateError(callCtx context.Context, err error) error {
	name := p.config.Name

	if errors.Is(err, context.DeadlineExceeded) && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &providers.TimeoutError{Provider: name, Timeout: p.config.Timeout}
	}

	var apiErr *gopenai.APIError
	if errors.As(err, &apiErr) {
		return statusError(name, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *gopenai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.HTTPStatus
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return statusError(name, reqErr.HTTPStatusCode, msg, err)
	}

	return &providers.ProviderError{Provider: name, Message: err.Error(), Cause: err}
}

func statusError(name string, status int, msg string, cause error) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &providers.AuthError{Provider: name, StatusCode: status, Message: msg}
	case http.StatusTooManyRequests:
		return &providers.RateLimitError{Provider: name, Message: msg}
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return &providers.ProviderError{Provider: name, StatusCode: status, Message: fmt.Sprintf("upstream timed out: %s", msg), Cause: cause}
	default:
		return &providers.ProviderError{Provider: name, StatusCode: status, Message: msg, Cause: cause}
	}
}
