package analysis

import (
	"context"
	"sync"

	"github.com/fwojciec/aeo"
	"golang.org/x/time/rate"
)

var _ aeo.UserLimiter = (*UserLimiter)(nil)

// UserLimiter throttles remote analyses per user with token buckets.
// Users are limited independently of each other.
type UserLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewUserLimiter creates a UserLimiter allowing rps requests per second
// per user with the given burst. A burst below 1 is treated as 1.
func NewUserLimiter(rps float64, burst int) *UserLimiter {
	return &UserLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    max(1, burst),
	}
}

// Wait blocks until userID may make another request.
// Returns an error if the context is canceled before the wait completes.
func (u *UserLimiter) Wait(ctx context.Context, userID string) error {
	u.mu.Lock()
	limiter, ok := u.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(u.rps), u.burst)
		u.limiters[userID] = limiter
	}
	u.mu.Unlock()

	return limiter.Wait(ctx)
}
