package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/relay/pkg/proxy/types"
)

func TestWriteJSONResponse(t *testing.T) {
	reply := "Hello"
	w := httptest.NewRecorder()

	if err := WriteJSONResponse(w, http.StatusOK, types.GenerateReply{Reply: &reply}); err != nil {
		t.Fatalf("WriteJSONResponse() error = %v", err)
	}

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content type application/json, got %q", ct)
	}
	if got := w.Body.String(); got != "{\"reply\":\"Hello\"}\n" {
		t.Errorf("unexpected body %q", got)
	}
}

func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	errResp := types.NewValidationError("\"message\" is required and must be a string", "message", types.CodeMissingField)
	if err := WriteErrorResponse(w, errResp); err != nil {
		t.Fatalf("WriteErrorResponse() error = %v", err)
	}

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", w.Code)
	}

	var got types.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if got.Error.Code != types.CodeMissingField || got.Error.Param != "message" {
		t.Errorf("unexpected error detail %+v", got.Error)
	}
}
