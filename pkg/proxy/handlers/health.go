package handlers

import (
	"log/slog"
	"net/http"

	"mercator-hq/relay/pkg/proxy"
	"mercator-hq/relay/pkg/proxy/types"
)

// HealthHandler serves the liveness probe. It never consults the upstream.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := proxy.WriteJSONResponse(w, http.StatusOK, types.HealthOK); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health response", "error", err)
	}
}
