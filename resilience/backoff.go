package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes exponentially growing delays between attempts.
type Backoff struct {
	// Initial is the delay after the first attempt.
	Initial time.Duration
	// Max caps every delay.
	Max time.Duration
	// Factor is the multiplier applied per attempt.
	Factor float64
	// Jitter adds randomness to each delay (0.0 to 1.0).
	Jitter float64
}

// DefaultBackoff returns a 1s to 10s doubling backoff with 10% jitter.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial: time.Second,
		Max:     10 * time.Second,
		Factor:  2.0,
		Jitter:  0.1,
	}
}

func (b Backoff) withDefaults() Backoff {
	if b.Initial <= 0 {
		b.Initial = 100 * time.Millisecond
	}
	if b.Max <= 0 {
		b.Max = 10 * time.Second
	}
	if b.Factor <= 0 {
		b.Factor = 2.0
	}
	return b
}

// Delay returns the delay to wait after attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	b = b.withDefaults()

	// initial * factor^(attempt-1)
	d := float64(b.Initial) * math.Pow(b.Factor, float64(attempt-1))

	if b.Jitter > 0 {
		jitterRange := d * b.Jitter
		d += (rand.Float64()*2 - 1) * jitterRange
	}

	if d > float64(b.Max) {
		d = float64(b.Max)
	}
	if d < 0 {
		d = float64(b.Initial)
	}
	return time.Duration(d)
}
