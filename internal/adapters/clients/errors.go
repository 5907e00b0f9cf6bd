// Package clients provides the outbound HTTP client used by downstream
// adapters. Its errors describe transport failures; adapters translate
// them into domain errors.
package clients

import "errors"

var (
	// ErrCircuitOpen means the breaker rejected the request without
	// contacting the downstream.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last transport error once every
	// attempt has failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
