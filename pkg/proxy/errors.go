package proxy

import (
	"errors"

	"mercator-hq/relay/pkg/completion"
	"mercator-hq/relay/pkg/proxy/types"
	"mercator-hq/relay/pkg/telemetry/logging"
)

var redactor = logging.NewRedactor()

// HandleError converts an error to an error response.
//
// Request errors become 413 or 422 responses. Every other error comes from
// the completion adapter and becomes a 500 "upstream_error" whose code is
// the completion.ErrorCode classification.
//
// Example usage:
//
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err))
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	code := completion.ErrorCode(err)
	return types.NewUpstreamError(upstreamMessage(code, err), code)
}

// upstreamMessage returns a client-facing message for a completion failure.
// Upstream messages are passed through with credentials redacted.
func upstreamMessage(code string, err error) string {
	switch code {
	case completion.CodeCredentialMissing:
		return "Upstream credential is not configured."
	case completion.CodeTimeout:
		return "Upstream request timed out."
	default:
		return redactor.RedactString(err.Error())
	}
}
