package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/security/secrets"
)

// upstream is a minimal chat-completions server that records requests.
type upstream struct {
	mu       sync.Mutex
	requests []chatRequest
	bodies   [][]byte
	authz    []string
	handler  func(w http.ResponseWriter, req chatRequest)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage keeps Content as a pointer so an absent member is visible.
type chatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

func (m chatMessage) text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u.mu.Lock()
	u.requests = append(u.requests, req)
	u.bodies = append(u.bodies, body)
	u.authz = append(u.authz, r.Header.Get("Authorization"))
	u.mu.Unlock()

	u.handler(w, req)
}

func (u *upstream) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *upstream) request(i int) (chatRequest, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[i], u.authz[i]
}

func (u *upstream) body(i int) []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.bodies[i]
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo-0125",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12},
	})
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "invalid_request_error", "code": nil},
	})
}

func newTestProvider(t *testing.T, u *upstream, sp secrets.SecretProvider, timeout time.Duration) *Provider {
	t.Helper()

	server := httptest.NewServer(u)
	t.Cleanup(server.Close)

	p, err := NewProvider(Config{
		BaseURL:      server.URL + "/v1",
		APIKeySecret: "OPENAI_API_KEY",
		Timeout:      timeout,
	}, sp)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func userRequest(content string) *providers.CompletionRequest {
	return &providers.CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []providers.Message{{Role: providers.RoleUser, Content: content}},
	}
}

func TestProvider_SendCompletion(t *testing.T) {
	u := &upstream{handler: func(w http.ResponseWriter, req chatRequest) {
		writeCompletion(w, req.Messages[0].text())
	}}
	sp := secrets.NewStaticProvider(map[string]string{"OPENAI_API_KEY": "sk-test"})
	p := newTestProvider(t, u, sp, 5*time.Second)

	resp, err := p.SendCompletion(context.Background(), userRequest("Hello"))
	if err != nil {
		t.Fatalf("SendCompletion() error = %v", err)
	}

	if resp.Content != "Hello" {
		t.Errorf("expected content %q, got %q", "Hello", resp.Content)
	}
	if resp.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", providers.FinishReasonStop, resp.FinishReason)
	}
	if resp.Usage.TotalTokens != 12 {
		t.Errorf("expected total tokens 12, got %d", resp.Usage.TotalTokens)
	}

	if u.calls() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", u.calls())
	}
	got, authz := u.request(0)
	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("expected model %q, got %q", "gpt-3.5-turbo", got.Model)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].text() != "Hello" {
		t.Errorf("unexpected upstream messages: %+v", got.Messages)
	}
	if authz != "Bearer sk-test" {
		t.Errorf("expected bearer credential, got %q", authz)
	}
}

func TestProvider_CredentialReadPerCall(t *testing.T) {
	u := &upstream{handler: func(w http.ResponseWriter, req chatRequest) {
		writeCompletion(w, "ok")
	}}
	sp := secrets.NewStaticProvider(map[string]string{"OPENAI_API_KEY": "sk-first"})
	p := newTestProvider(t, u, sp, 5*time.Second)

	if _, err := p.SendCompletion(context.Background(), userRequest("one")); err != nil {
		t.Fatalf("first call error = %v", err)
	}
	sp.Set("OPENAI_API_KEY", "sk-second")
	if _, err := p.SendCompletion(context.Background(), userRequest("two")); err != nil {
		t.Fatalf("second call error = %v", err)
	}

	_, first := u.request(0)
	_, second := u.request(1)
	if first != "Bearer sk-first" || second != "Bearer sk-second" {
		t.Errorf("expected rotated credential, got %q then %q", first, second)
	}
}

func TestProvider_MissingCredential(t *testing.T) {
	u := &upstream{handler: func(w http.ResponseWriter, req chatRequest) {
		writeCompletion(w, "unreachable")
	}}
	p := newTestProvider(t, u, secrets.NewStaticProvider(nil), 5*time.Second)

	_, err := p.SendCompletion(context.Background(), userRequest("Hello"))

	var credErr *providers.CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected CredentialError, got %T: %v", err, err)
	}
	if !errors.Is(err, secrets.ErrSecretNotFound) {
		t.Errorf("expected error chain to include ErrSecretNotFound")
	}
	if u.calls() != 0 {
		t.Errorf("expected no upstream call, got %d", u.calls())
	}
}

func TestProvider_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, req chatRequest)
		check   func(t *testing.T, err error)
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, req chatRequest) {
				writeAPIError(w, http.StatusUnauthorized, "Incorrect API key provided")
			},
			check: func(t *testing.T, err error) {
				var authErr *providers.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T: %v", err, err)
				}
				if authErr.StatusCode != http.StatusUnauthorized {
					t.Errorf("expected status 401, got %d", authErr.StatusCode)
				}
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, req chatRequest) {
				writeAPIError(w, http.StatusTooManyRequests, "Rate limit reached")
			},
			check: func(t *testing.T, err error) {
				var rlErr *providers.RateLimitError
				if !errors.As(err, &rlErr) {
					t.Fatalf("expected RateLimitError, got %T: %v", err, err)
				}
			},
		},
		{
			name: "server error with json body",
			handler: func(w http.ResponseWriter, req chatRequest) {
				writeAPIError(w, http.StatusInternalServerError, "The server had an error")
			},
			check: func(t *testing.T, err error) {
				var pErr *providers.ProviderError
				if !errors.As(err, &pErr) {
					t.Fatalf("expected ProviderError, got %T: %v", err, err)
				}
				if pErr.StatusCode != http.StatusInternalServerError {
					t.Errorf("expected status 500, got %d", pErr.StatusCode)
				}
			},
		},
		{
			name: "bad gateway with plain body",
			handler: func(w http.ResponseWriter, req chatRequest) {
				http.Error(w, "upstream connect error", http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var pErr *providers.ProviderError
				if !errors.As(err, &pErr) {
					t.Fatalf("expected ProviderError, got %T: %v", err, err)
				}
				if pErr.StatusCode != http.StatusBadGateway {
					t.Errorf("expected status 502, got %d", pErr.StatusCode)
				}
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, req chatRequest) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id":"x","object":"chat.completion","model":"m","choices":[]}`))
			},
			check: func(t *testing.T, err error) {
				var parseErr *providers.ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected ParseError, got %T: %v", err, err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &upstream{handler: tt.handler}
			sp := secrets.NewStaticProvider(map[string]string{"OPENAI_API_KEY": "sk-test"})
			p := newTestProvider(t, u, sp, 5*time.Second)

			_, err := p.SendCompletion(context.Background(), userRequest("Hello"))
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)

			if u.calls() != 1 {
				t.Errorf("expected exactly 1 upstream call (no retries), got %d", u.calls())
			}
		})
	}
}

func TestProvider_Timeout(t *testing.T) {
	u := &upstream{}
	u.handler = func(w http.ResponseWriter, req chatRequest) {
		time.Sleep(500 * time.Millisecond)
		writeCompletion(w, "too late")
	}
	sp := secrets.NewStaticProvider(map[string]string{"OPENAI_API_KEY": "sk-test"})
	p := newTestProvider(t, u, sp, 50*time.Millisecond)

	_, err := p.SendCompletion(context.Background(), userRequest("Hello"))

	var timeoutErr *providers.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
	if timeoutErr.Timeout != 50*time.Millisecond {
		t.Errorf("expected timeout 50ms, got %v", timeoutErr.Timeout)
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	sp := secrets.NewStaticProvider(nil)

	tests := []struct {
		name  string
		cfg   Config
		sp    secrets.SecretProvider
		field string
	}{
		{name: "missing base url", cfg: Config{APIKeySecret: "K", Timeout: time.Second}, sp: sp, field: "base_url"},
		{name: "missing secret name", cfg: Config{BaseURL: "http://x", Timeout: time.Second}, sp: sp, field: "api_key_secret"},
		{name: "zero timeout", cfg: Config{BaseURL: "http://x", APIKeySecret: "K"}, sp: sp, field: "timeout"},
		{name: "nil secrets", cfg: Config{BaseURL: "http://x", APIKeySecret: "K", Timeout: time.Second}, field: "secrets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.cfg, tt.sp)

			var cfgErr *providers.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestProvider_SendCompletion_EmptyMessage(t *testing.T) {
	u := &upstream{handler: func(w http.ResponseWriter, req chatRequest) {
		writeCompletion(w, "ok")
	}}
	sp := secrets.NewStaticProvider(map[string]string{"OPENAI_API_KEY": "sk-test"})
	p := newTestProvider(t, u, sp, 5*time.Second)

	if _, err := p.SendCompletion(context.Background(), userRequest("")); err != nil {
		t.Fatalf("SendCompletion() error = %v", err)
	}

	got, _ := u.request(0)
	if len(got.Messages) != 1 || got.Messages[0].Content == nil || *got.Messages[0].Content != "" {
		t.Errorf("expected one user message with empty content, got body %s", u.body(0))
	}
	if !bytes.Contains(u.body(0), []byte(`"content":""`)) {
		t.Errorf("expected explicit empty content in body %s", u.body(0))
	}
}

func TestWithEmptyContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing content restored",
			body: `{"model":"m","messages":[{"role":"user"}]}`,
			want: `{"messages":[{"content":"","role":"user"}],"model":"m"}`,
		},
		{
			name: "present content untouched",
			body: `{"model":"m","messages":[{"role":"user","content":"hi"}]}`,
			want: `{"model":"m","messages":[{"role":"user","content":"hi"}]}`,
		},
		{
			name: "tool call message untouched",
			body: `{"messages":[{"role":"assistant","tool_calls":[]}]}`,
			want: `{"messages":[{"role":"assistant","tool_calls":[]}]}`,
		},
		{
			name: "no messages",
			body: `{"model":"m"}`,
			want: `{"model":"m"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withEmptyContent([]byte(tt.body))
			if err != nil {
				t.Fatalf("withEmptyContent() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if _, err := withEmptyContent([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed body")
	}
}
