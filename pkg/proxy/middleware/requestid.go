package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"mercator-hq/relay/pkg/proxy"
	"mercator-hq/relay/pkg/telemetry/logging"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = proxy.RequestIDHeader

	// MaxRequestIDLength bounds client-supplied request IDs.
	MaxRequestIDLength = 128
)

// RequestIDMiddleware adds a request ID to the context and response headers.
// A client-provided X-Request-ID is reused when it is printable ASCII of at
// most MaxRequestIDLength bytes; otherwise a UUID v4 is generated.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
