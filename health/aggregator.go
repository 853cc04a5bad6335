package health

import (
	"context"
	"sync"
	"time"
)

// Aggregator runs a set of checkers and combines their results.
type Aggregator struct {
	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator creates an aggregator over the given checkers.
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// Register adds a checker.
func (a *Aggregator) Register(c Checker) {
	if c == nil {
		return
	}
	a.mu.Lock()
	a.checkers = append(a.checkers, c)
	a.mu.Unlock()
}

// CheckAll runs every checker concurrently and returns results by name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	var wg sync.WaitGroup
	var resultsMu sync.Mutex

	for _, c := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)

			resultsMu.Lock()
			results[c.Name()] = result
			resultsMu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

// Overall reduces results to the worst status seen. No checks means
// healthy.
func (a *Aggregator) Overall(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		if r.Status > overall {
			overall = r.Status
		}
	}
	return overall
}
