// Package proxy implements the request and response plumbing of relay's
// HTTP API.
//
// # Architecture
//
//   - Handlers: POST /generate and GET /health (package handlers)
//   - Middleware: recovery, request ID and access logging (package middleware)
//   - Types: JSON request, reply and error shapes (package types)
//   - This package: body parsing and validation, error mapping and JSON writers
//
// # Request Parsing
//
// ParseGenerateRequest reads the body through a size limit, decodes it as a
// JSON object and validates it with go-playground/validator. Every failure is
// a *RequestError that HandleError turns into a 413 or 422 error envelope.
//
// # Error Mapping
//
// HandleError maps any error to an ErrorResponse. Completion failures all
// become status 500 with type "upstream_error"; the code field carries the
// classification (for example "credential_missing" or "upstream_timeout").
//
// # Example
//
//	req, err := proxy.ParseGenerateRequest(w, r, maxBytes)
//	if err != nil {
//	    proxy.WriteErrorResponse(w, proxy.HandleError(err))
//	    return
//	}
package proxy
