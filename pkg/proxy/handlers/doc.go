// Package handlers provides the HTTP handlers of the relay.
//
//   - GenerateHandler: POST /generate, one chat completion per request
//   - HealthHandler: GET /health, a constant liveness payload
//
// GenerateHandler parses the body with proxy.ParseGenerateRequest, calls its
// Completer with the message exactly as received and writes
//
//	{"reply": "..."}
//
// or {"reply": null} when the upstream returned no content. Invalid bodies
// are rejected with 422 (413 when too large) before any upstream call.
// Upstream failures are reported with status 500 and an error envelope
// without a reply member:
//
//	{
//	  "error": {
//	    "message": "Upstream credential is not configured.",
//	    "type": "upstream_error",
//	    "code": "credential_missing"
//	  }
//	}
package handlers
