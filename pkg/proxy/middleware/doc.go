// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server chains the middleware so that recovery is outermost:
//
//	handler = Recovery(RequestID(Logging(handler)))
//
//  1. RecoveryMiddleware: turns a panic into a 500 error envelope
//  2. RequestIDMiddleware: honours or generates X-Request-ID
//  3. LoggingMiddleware: logs each request with its status and latency
//
// # Request ID
//
// RequestIDMiddleware generates a UUID v4 for each request unless the client
// supplied a usable X-Request-ID:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The ID is stored with logging.WithRequestID, so every log record written
// with the request context carries a request_id attribute, and it is echoed
// in the response headers.
package middleware
