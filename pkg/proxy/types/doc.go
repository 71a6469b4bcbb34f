// Package types defines the JSON shapes exchanged over relay's HTTP API.
//
// Request types:
//   - GenerateRequest: body of POST /generate
//
// Response types:
//   - GenerateReply: successful POST /generate response; reply may be null
//   - HealthStatus: constant GET /health response
//
// Error types:
//   - ErrorResponse: OpenAI-style error envelope used for every error status
//   - ErrorDetail: message, type, param and code of an error
//
// All types use encoding/json with snake_case field names.
package types
