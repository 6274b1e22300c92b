package loader

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// limiter caps concurrent database operations and remembers the highest
// concurrency it admitted.
type limiter struct {
	sem      *semaphore.Weighted
	inFlight atomic.Int64
	peak     atomic.Int64
}

func newLimiter(capacity int64) *limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &limiter{sem: semaphore.NewWeighted(capacity)}
}

func (l *limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	n := l.inFlight.Add(1)
	for {
		peak := l.peak.Load()
		if n <= peak || l.peak.CompareAndSwap(peak, n) {
			return nil
		}
	}
}

func (l *limiter) Release() {
	l.inFlight.Add(-1)
	l.sem.Release(1)
}

func (l *limiter) Peak() int64 {
	return l.peak.Load()
}
