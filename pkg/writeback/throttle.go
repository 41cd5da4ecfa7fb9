package writeback

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces write dispatches. Wait blocks until the next dispatch may
// start or ctx is done.
type Throttle interface {
	Wait(ctx context.Context) error
}

// IntervalThrottle lets the first dispatch through immediately and every
// later one no sooner than Interval after the previous.
type IntervalThrottle struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewIntervalThrottle creates a single-lane throttle. A non-positive
// interval disables spacing.
func NewIntervalThrottle(interval time.Duration) *IntervalThrottle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &IntervalThrottle{interval: interval, limiter: rate.NewLimiter(limit, 1)}
}

// Wait implements Throttle.
func (t *IntervalThrottle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Interval returns the configured spacing.
func (t *IntervalThrottle) Interval() time.Duration {
	return t.interval
}
