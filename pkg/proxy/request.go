package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"mercator-hq/relay/pkg/proxy/types"
)

const (
	// DefaultMaxRequestBodySize is the default request body limit (10MB).
	DefaultMaxRequestBodySize = 10 * 1024 * 1024

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseGenerateRequest reads and validates a POST /generate body.
//
// The body is limited to maxBytes (DefaultMaxRequestBodySize when <= 0).
// It must be a JSON object whose "message" member is a string; unknown
// members are ignored. Every failure is returned as a *RequestError.
func ParseGenerateRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*types.GenerateRequest, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBodySize
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &RequestError{
				Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
				Code:    types.CodeRequestTooLarge,
				Param:   "body",
				Status:  http.StatusRequestEntityTooLarge,
			}
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	// Member names are matched exactly. Decoding straight into the struct
	// would let encoding/json accept "Message" or "MESSAGE".
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, decodeError(err, "body")
	}

	var req types.GenerateRequest
	if raw, ok := members["message"]; ok {
		if err := json.Unmarshal(raw, &req.Message); err != nil {
			return nil, decodeError(err, "message")
		}
	}

	if err := requestValidator.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return nil, &RequestError{
				Message: fmt.Sprintf("%q is required and must be a string", field),
				Code:    types.CodeMissingField,
				Param:   field,
			}
		}
		return nil, err
	}

	return &req, nil
}

// decodeError converts a json.Unmarshal error for param to a RequestError.
func decodeError(err error, param string) *RequestError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if param == "body" {
			return &RequestError{
				Message: fmt.Sprintf("request body must be a JSON object, got %s", typeErr.Value),
				Code:    types.CodeInvalidType,
				Param:   param,
			}
		}
		return &RequestError{
			Message: fmt.Sprintf("%q must be a string, got %s", param, typeErr.Value),
			Code:    types.CodeInvalidType,
			Param:   param,
		}
	}

	return &RequestError{
		Message: fmt.Sprintf("invalid JSON: %v", err),
		Code:    types.CodeInvalidJSON,
		Param:   "body",
	}
}

// ExtractRequestID extracts the request ID from the X-Request-ID header.
// If the header is not present, it returns an empty string.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// RequestError represents a request parsing or validation error.
type RequestError struct {
	Message string
	Code    string
	Param   string

	// Status is http.StatusRequestEntityTooLarge for oversized bodies and
	// zero for validation failures.
	Status int
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts a RequestError to an error response.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	if e.Status == http.StatusRequestEntityTooLarge {
		return types.NewInvalidRequestError(e.Message, e.Param, e.Code)
	}
	return types.NewValidationError(e.Message, e.Param, e.Code)
}
