package resilience

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter caps the number of operations running at once. Acquisition blocks
// until a slot frees or the context ends, so a saturated backend applies
// backpressure instead of unbounded fan-out.
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter creates a limiter admitting at most n concurrent operations.
// n < 1 is treated as 1.
func NewLimiter(n int64) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(n)}
}

// Do runs op while holding a slot.
func (l *Limiter) Do(ctx context.Context, op func(context.Context) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return op(ctx)
}

// TryDo runs op if a slot is immediately available, otherwise returns
// ErrSaturated without blocking.
func (l *Limiter) TryDo(ctx context.Context, op func(context.Context) error) error {
	if !l.sem.TryAcquire(1) {
		return ErrSaturated
	}
	defer l.sem.Release(1)
	return op(ctx)
}
