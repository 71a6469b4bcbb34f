package types

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestErrorDetail_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		resp *ErrorResponse
		want int
	}{
		{"validation", NewValidationError("bad", "message", CodeMissingField), http.StatusUnprocessableEntity},
		{"too large", NewInvalidRequestError("big", "body", CodeRequestTooLarge), http.StatusRequestEntityTooLarge},
		{"invalid request", NewInvalidRequestError("bad", "", ""), http.StatusBadRequest},
		{"upstream", NewUpstreamError("down", "upstream_failed"), http.StatusInternalServerError},
		{"server", NewServerError("oops"), http.StatusInternalServerError},
		{"unknown type", NewErrorResponse("?", "mystery", "", ""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Error.HTTPStatusCode(); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerateReply_NullReply(t *testing.T) {
	data, err := json.Marshal(GenerateReply{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"reply":null}` {
		t.Errorf("expected null reply, got %s", data)
	}
}

func TestHealthOK(t *testing.T) {
	data, err := json.Marshal(HealthOK)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"status":"ok"}` {
		t.Errorf("expected constant health payload, got %s", data)
	}
}

func TestErrorResponse_NoReply(t *testing.T) {
	data, _ := json.Marshal(NewUpstreamError("down", "upstream_failed"))

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := body["reply"]; ok {
		t.Error("error response must not contain reply")
	}
	if _, ok := body["error"]; !ok {
		t.Error("error response must contain error")
	}
}
