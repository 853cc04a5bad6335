package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3.
	MaxAttempts int

	// InitialDelay is the delay before the first retry. Default: 100ms.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries. Default: 5s.
	MaxDelay time.Duration

	// RetryIf decides whether an error is worth retrying.
	// Default: retry every non-nil error.
	RetryIf func(err error) bool
}

// Retry runs operations with jittered exponential backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry handler, applying defaults.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 5 * time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}
	return &Retry{config: config}
}

// Execute runs op until it succeeds, exhausts attempts, or hits a
// non-retryable error. Waits respect ctx cancellation.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !r.config.RetryIf(lastErr) {
			return lastErr
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.delay(attempt)):
		}
	}
	return lastErr
}

// delay computes the backoff for the given attempt: exponential doubling,
// capped, with up to 25% positive jitter.
func (r *Retry) delay(attempt int) time.Duration {
	backoff := float64(r.config.InitialDelay) * math.Pow(2, float64(attempt-1))
	if capped := float64(r.config.MaxDelay); backoff > capped {
		backoff = capped
	}
	jitter := backoff * 0.25 * rand.Float64()
	return time.Duration(backoff + jitter)
}
