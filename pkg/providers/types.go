package providers

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reasons reported by the upstream.
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)

// Message represents a single message in a conversation.
type Message struct {
	// Role identifies the message sender (system, user, assistant).
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens used (prompt + completion).
	TotalTokens int `json:"total_tokens"`
}

// CompletionRequest represents a provider-agnostic completion request.
type CompletionRequest struct {
	// Model is the model identifier to use.
	Model string `json:"model"`

	// Messages is the conversation sent to the model.
	Messages []Message `json:"messages"`

	// RequestID correlates the upstream call with the inbound request.
	RequestID string `json:"-"`
}

// CompletionResponse represents a normalized completion response.
type CompletionResponse struct {
	// ID is the upstream response identifier.
	ID string `json:"id"`

	// Model is the model that served the request, as reported upstream.
	Model string `json:"model"`

	// Content is the text of the first choice.
	Content string `json:"content"`

	// FinishReason is why generation of the first choice stopped.
	FinishReason string `json:"finish_reason"`

	// Usage is the token usage reported upstream.
	Usage TokenUsage `json:"usage"`
}
