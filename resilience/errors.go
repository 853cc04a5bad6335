package resilience

import "errors"

// Sentinel errors for resilience wrappers.
var (
	ErrTimeout   = errors.New("resilience: operation timed out")
	ErrSaturated = errors.New("resilience: concurrency limit reached")
)
