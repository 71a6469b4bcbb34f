// Package health implements readiness checks for relay's dependencies.
//
// Liveness is the constant GET /health endpoint served by the proxy
// handlers and never consults this package. Readiness (GET /ready) runs
// every registered CheckFunc concurrently with a per-check timeout and
// reports 503 when any check fails. GET /version reports build details.
package health
