package ratelimiter

import (
	"golang.org/x/time/rate"
)

// RefreshLimiter throttles out-of-cycle polls. Regular ticks never pass
// through it; only the immediate polls requested after an acknowledgement or
// a settings change do. A denied refresh is simply dropped because the next
// tick is at most one poll interval away.
type RefreshLimiter struct {
	limiter *rate.Limiter
}

// New creates a RefreshLimiter with perSec tokens per second and the given burst.
func New(perSec float64, burst int) *RefreshLimiter {
	return &RefreshLimiter{limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

// Allow reports whether an out-of-cycle poll may run now and consumes a token if so.
func (rl *RefreshLimiter) Allow() bool {
	return rl.limiter.Allow()
}
