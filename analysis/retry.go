package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/aeo"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for provider retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// Retryable reports whether a failed provider call may be attempted again.
// Context errors and caller errors (invalid input, quota) are final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch aeo.ErrorCode(err) {
	case aeo.EPROVIDER, aeo.EINTERNAL:
		return true
	}
	return false
}

// Do calls fn until it succeeds, returns a non-retryable error or the
// delays are used up. len(delays)+1 attempts are made at most.
func Do[T any](ctx context.Context, delays []time.Duration, logger LogFunc, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !Retryable(err) {
			break
		}

		if logger != nil {
			logger("retry provider call (attempt %d): %v", attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}
