package types

import "net/http"

// ErrorResponse represents an OpenAI-style error response.
// It never carries a reply.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	// Possible values: "validation_error", "invalid_request_error",
	// "upstream_error", "server_error".
	Type string `json:"type"`

	// Param is the name of the parameter that caused the error (if applicable).
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeValidation indicates the request body failed validation (422).
	ErrorTypeValidation = "validation_error"

	// ErrorTypeInvalidRequest indicates a malformed request (400, or 413 for
	// CodeRequestTooLarge).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeUpstream indicates the completion upstream failed (500).
	ErrorTypeUpstream = "upstream_error"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"
)

// Error code constants for request errors. Upstream error codes are
// defined by the completion package.
const (
	// CodeMissingField indicates a required field is missing or null.
	CodeMissingField = "missing_field"

	// CodeInvalidType indicates a field or the body has the wrong JSON type.
	CodeInvalidType = "invalid_type"

	// CodeInvalidJSON indicates the request body is not valid JSON.
	CodeInvalidJSON = "invalid_json"

	// CodeRequestTooLarge indicates the request payload is too large.
	CodeRequestTooLarge = "request_too_large"

	// CodeInternalError indicates an internal server error.
	CodeInternalError = "internal_error"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewValidationError creates an error response for invalid bodies (422).
func NewValidationError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeValidation, param, code)
}

// NewInvalidRequestError creates an error response for malformed requests.
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewUpstreamError creates an error response for completion failures (500).
func NewUpstreamError(message, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeUpstream, "", code)
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// HTTPStatusCode returns the HTTP status code for the error.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusUnprocessableEntity
	case ErrorTypeInvalidRequest:
		if e.Code == CodeRequestTooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case ErrorTypeUpstream, ErrorTypeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
