package resilience

import (
	"context"
	"errors"
	"time"
)

// WithTimeout runs op under a deadline. A deadline that fires maps to
// ErrTimeout so callers can distinguish it from upstream cancellation.
// op must honor ctx; there is no goroutine to abandon it.
func WithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	if timeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := op(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
