// Relay is a minimal HTTP relay in front of a chat-completion API.
//
// It exposes two endpoints:
//   - POST /generate forwards {"message": ...} as a single user message and
//     returns {"reply": ...}
//   - GET /health reports liveness
//
// Usage:
//
//	# Start the server (reads OPENAI_API_KEY on every request)
//	relay run
//
//	# Start with a configuration file and a different address
//	relay run --config relay.yaml --listen 0.0.0.0:8000
//
//	# Check the effective configuration
//	relay validate
//
//	# Inspect the evidence trail
//	relay evidence query --since 24h --format csv
package main

import "os"

func main() {
	os.Exit(Execute())
}
