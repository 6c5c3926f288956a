// Package timeout defines centralized timeout constants for AI operations.
package timeout

import "time"

const (
	// CaptureTimeout bounds a single capture request, including the wait
	// for a free capture slot.
	CaptureTimeout = 30 * time.Second

	// LLMRequestTimeout is the HTTP client timeout of the LLM provider.
	LLMRequestTimeout = 25 * time.Second
)
