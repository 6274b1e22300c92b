package clock

import (
	"math/rand/v2"
	"time"
)

// Jitter returns d scaled by a random factor in [1-fraction, 1+fraction].
// A non-positive fraction or duration returns d unchanged.
func Jitter(d time.Duration, fraction float64) time.Duration {
	if d <= 0 || fraction <= 0 {
		return d
	}
	if fraction > 1 {
		fraction = 1
	}
	delta := (rand.Float64()*2 - 1) * fraction * float64(d)
	return d + time.Duration(delta)
}
