// Package completion turns a single user message into one upstream chat
// completion.
//
// The Adapter owns the fixed model name and the provider. Each call to
// Complete builds a request containing exactly one message with role
// "user", sends it once (no retries), and returns the first choice's text.
// An empty reply is reported as a nil Reply so that callers can render it
// as JSON null.
//
// Around the upstream call the adapter opens a "completion.complete" span,
// records Prometheus metrics and submits an evidence record. None of these
// can fail the call.
package completion
