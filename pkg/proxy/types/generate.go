package types

// GenerateRequest is the body of POST /generate. Message is a pointer so
// that a missing or null member can be told apart from the empty string.
type GenerateRequest struct {
	// Message is the user text forwarded upstream unmodified.
	Message *string `json:"message" validate:"required"`
}

// GenerateReply is the successful response of POST /generate.
type GenerateReply struct {
	// Reply is the upstream text, or null when the upstream returned none.
	Reply *string `json:"reply"`
}

// HealthStatus is the response of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

// HealthOK is the constant health payload.
var HealthOK = HealthStatus{Status: "ok"}
