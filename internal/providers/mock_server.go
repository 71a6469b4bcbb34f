// Package providers contains test doubles for upstream completion APIs.
package providers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// ChatCompletionsPath is the route the mock serves, relative to BaseURL.
const ChatCompletionsPath = "/v1/chat/completions"

// ChatMessage is one message of a received chat request. Content is nil
// when the message carried no "content" member.
type ChatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// Text returns the message content, or "" when it was absent.
func (m ChatMessage) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// ChatRequest is a chat-completions request as received by the mock.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`

	// Authorization is the raw Authorization header.
	Authorization string `json:"-"`

	// Body is the raw request body.
	Body []byte `json:"-"`
}

// MockResponse defines how the mock answers a request.
type MockResponse struct {
	StatusCode int
	Body       any
	Delay      time.Duration
	Headers    map[string]string
}

// MockServer is a fake OpenAI chat-completions endpoint. Without a configured
// response it echoes the last message content back as the assistant reply.
type MockServer struct {
	server *httptest.Server

	mu       sync.Mutex
	response *MockResponse
	requests []ChatRequest
}

// NewMockServer starts a mock server. Callers must Close it.
func NewMockServer() *MockServer {
	ms := &MockServer{}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// BaseURL returns the API base URL to configure a client with.
func (ms *MockServer) BaseURL() string {
	return ms.server.URL + "/v1"
}

// Close shuts the server down.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse makes every following request receive response.
func (ms *MockServer) SetResponse(response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.response = &response
}

// RequestCount returns the number of chat requests received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// Requests returns a copy of the received chat requests.
func (ms *MockServer) Requests() []ChatRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]ChatRequest, len(ms.requests))
	copy(out, ms.requests)
	return out
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != ChatCompletionsPath {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, MockErrorResponse(http.StatusBadRequest, "unreadable request body"))
		return
	}
	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, MockErrorResponse(http.StatusBadRequest, "malformed request body"))
		return
	}
	req.Authorization = r.Header.Get("Authorization")
	req.Body = body

	ms.mu.Lock()
	ms.requests = append(ms.requests, req)
	response := ms.response
	ms.mu.Unlock()

	if response == nil {
		content := ""
		if n := len(req.Messages); n > 0 {
			content = req.Messages[n-1].Text()
		}
		response = &MockResponse{StatusCode: http.StatusOK, Body: MockChatResponse(content, req.Model)}
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	writeJSON(w, *response)
}

func writeJSON(w http.ResponseWriter, response MockResponse) {
	w.Header().Set("Content-Type", "application/json")
	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(response.StatusCode)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

// MockChatResponse builds a successful chat completion body with one choice.
func MockChatResponse(content, model string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// MockReply answers with a fixed assistant reply.
func MockReply(content string) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Body: MockChatResponse(content, "gpt-3.5-turbo-0125")}
}

// MockErrorResponse builds an OpenAI-style error response.
func MockErrorResponse(statusCode int, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body: map[string]any{
			"error": map[string]any{
				"message": message,
				"type":    "invalid_request_error",
			},
		},
	}
}

// MockAuthError creates a 401 authentication error response.
func MockAuthError() MockResponse {
	return MockErrorResponse(http.StatusUnauthorized, "Incorrect API key provided")
}

// MockRateLimitError creates a 429 response.
func MockRateLimitError() MockResponse {
	response := MockErrorResponse(http.StatusTooManyRequests, "Rate limit reached")
	response.Headers = map[string]string{"Retry-After": "1"}
	return response
}

// MockSlowReply delays a successful reply by delay.
func MockSlowReply(content string, delay time.Duration) MockResponse {
	response := MockReply(content)
	response.Delay = delay
	return response
}
