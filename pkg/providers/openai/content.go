package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// contentDoer is the go-openai HTTPDoer used by Provider. go-openai drops
// the "content" member of a message whose Content is "", so an empty user
// message would reach the API without content. contentDoer writes it back
// as "" before the request leaves.
type contentDoer struct {
	client *http.Client
}

func (d contentDoer) Do(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPost && req.Body != nil && strings.HasSuffix(req.URL.Path, "/chat/completions") {
		if err := restoreEmptyContent(req); err != nil {
			return nil, err
		}
	}
	return d.client.Do(req)
}

func restoreEmptyContent(req *http.Request) error {
	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read chat request body: %w", err)
	}

	patched, err := withEmptyContent(body)
	if err != nil {
		return err
	}

	req.Body = io.NopCloser(bytes.NewReader(patched))
	req.ContentLength = int64(len(patched))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(patched)), nil
	}
	return nil
}

// withEmptyContent adds "content":"" to every message that has neither
// content nor a tool or function call. body is returned unchanged when no
// message needs it.
func withEmptyContent(body []byte) ([]byte, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode chat request body: %w", err)
	}

	rawMessages, ok := payload["messages"]
	if !ok {
		return body, nil
	}

	var messages []map[string]json.RawMessage
	if err := json.Unmarshal(rawMessages, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat messages: %w", err)
	}

	changed := false
	for _, m := range messages {
		if hasAny(m, "content", "tool_calls", "function_call") {
			continue
		}
		m["content"] = json.RawMessage(`""`)
		changed = true
	}
	if !changed {
		return body, nil
	}

	encoded, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat messages: %w", err)
	}
	payload["messages"] = encoded
	return json.Marshal(payload)
}

func hasAny(m map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
