// Package clock holds the waits used by retry loops.
package clock

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx ends. A non-positive d only reports ctx.Err().
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff waits base*attempt spread by fraction, so retries from many workers
// do not line up.
func Backoff(ctx context.Context, base time.Duration, attempt int, fraction float64) error {
	if attempt < 1 {
		attempt = 1
	}
	return Sleep(ctx, Jitter(base*time.Duration(attempt), fraction))
}
