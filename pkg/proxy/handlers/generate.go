package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/relay/pkg/completion"
	"mercator-hq/relay/pkg/proxy"
	"mercator-hq/relay/pkg/proxy/types"
)

// Completer performs one chat completion for a user message.
type Completer interface {
	Complete(ctx context.Context, message string) (*completion.Result, error)
}

// GenerateHandler serves POST /generate.
type GenerateHandler struct {
	Completer Completer

	// MaxBodyBytes caps the request body; <= 0 uses proxy.DefaultMaxRequestBodySize.
	MaxBodyBytes int64
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(c Completer, maxBodyBytes int64) *GenerateHandler {
	return &GenerateHandler{Completer: c, MaxBodyBytes: maxBodyBytes}
}

// ServeHTTP implements http.Handler.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	if r.Method != http.MethodPost {
		errResp := types.NewInvalidRequestError(
			fmt.Sprintf("Method %s not allowed. Use POST instead.", r.Method),
			"method",
			"method_not_allowed",
		)
		writeError(ctx, w, errResp)
		return
	}

	req, err := proxy.ParseGenerateRequest(w, r, h.MaxBodyBytes)
	if err != nil {
		slog.WarnContext(ctx, "rejected generate request", "error", err)
		writeError(ctx, w, proxy.HandleError(err))
		return
	}

	slog.DebugContext(ctx, "processing generate request",
		"message_length", len(*req.Message),
	)

	result, err := h.Completer.Complete(ctx, *req.Message)
	if err != nil {
		slog.ErrorContext(ctx, "completion failed",
			"error", err,
			"code", completion.ErrorCode(err),
			"latency_ms", time.Since(startTime).Milliseconds(),
		)
		writeError(ctx, w, proxy.HandleError(err))
		return
	}

	slog.InfoContext(ctx, "generate request completed",
		"model", result.Model,
		"finish_reason", result.FinishReason,
		"total_tokens", result.Usage.TotalTokens,
		"null_reply", result.Reply == nil,
		"latency_ms", time.Since(startTime).Milliseconds(),
	)

	if err := proxy.WriteJSONResponse(w, http.StatusOK, types.GenerateReply{Reply: result.Reply}); err != nil {
		slog.ErrorContext(ctx, "failed to write response",
			"error", err,
		)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, errResp *types.ErrorResponse) {
	if err := proxy.WriteErrorResponse(w, errResp); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}
