package completion

import (
	"errors"

	"mercator-hq/relay/pkg/providers"
)

// Error codes reported for failed completions. They appear in error
// responses, evidence records and the outcome metric label.
const (
	CodeCredentialMissing = "credential_missing"
	CodeAuthFailed        = "upstream_auth_failed"
	CodeRateLimited       = "upstream_rate_limited"
	CodeTimeout           = "upstream_timeout"
	CodeBadResponse       = "upstream_bad_response"
	CodeFailed            = "upstream_failed"
)

// OutcomeSuccess is the outcome label for a successful completion.
const OutcomeSuccess = "success"

// ErrorCode classifies a completion error. Unrecognized errors are
// reported as CodeFailed.
func ErrorCode(err error) string {
	var (
		credErr      *providers.CredentialError
		authErr      *providers.AuthError
		rateLimitErr *providers.RateLimitError
		timeoutErr   *providers.TimeoutError
		parseErr     *providers.ParseError
	)

	switch {
	case errors.As(err, &credErr):
		return CodeCredentialMissing
	case errors.As(err, &authErr):
		return CodeAuthFailed
	case errors.As(err, &rateLimitErr):
		return CodeRateLimited
	case errors.As(err, &timeoutErr):
		return CodeTimeout
	case errors.As(err, &parseErr):
		return CodeBadResponse
	default:
		return CodeFailed
	}
}
