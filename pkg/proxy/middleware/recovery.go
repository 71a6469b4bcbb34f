package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/relay/pkg/proxy"
	"mercator-hq/relay/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// error envelope. The panic is logged with its stack trace; nothing internal
// is exposed to the client.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", err,
				// Set on the response by RequestIDMiddleware, which runs inside.
				"request_id", w.Header().Get(RequestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			errResp := types.NewServerError("An internal error occurred. Please try again later.")
			_ = proxy.WriteErrorResponse(w, errResp)
		}()

		next.ServeHTTP(w, r)
	})
}
