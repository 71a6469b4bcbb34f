// Package providers defines the contract between relay and an upstream
// chat-completion API.
//
// A Provider sends one provider-agnostic CompletionRequest and returns a
// normalized CompletionResponse. Failures are reported as the typed errors
// in this package so callers can classify them with errors.As:
//
//   - CredentialError: no API credential was available for the call
//   - AuthError: the upstream rejected the credential (401/403)
//   - RateLimitError: the upstream throttled the call (429)
//   - TimeoutError: the call exceeded its deadline
//   - ParseError: the upstream answered with an unusable response
//   - ProviderError: any other upstream or transport failure
//
// Providers never retry.
package providers
