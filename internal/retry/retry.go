// Package retry re-runs operations that fail with a rate-limit error, doubling the delay between attempts.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mtlprog/remit/internal/domain"
)

// Retrier holds a backoff policy. The zero value runs an operation once.
type Retrier struct {
	// MaxAttempts is the maximum number of invocations of the operation.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt; each further wait doubles it.
	InitialDelay time.Duration
	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Retrier.
func New(maxAttempts int, initialDelay, maxDelay time.Duration) *Retrier {
	return &Retrier{
		MaxAttempts:  maxAttempts,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
	}
}

// rateLimitStatus is how HTTP clients in use render a 429 response in error text.
const rateLimitStatus = "HTTP 429"

// IsRateLimited reports whether err is the transient rate-limit signal worth retrying.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	return strings.Contains(err.Error(), rateLimitStatus)
}

// Do runs op, retrying while it fails with a rate-limit error and attempts remain.
// Any other error is returned at once.
func Do[T any](ctx context.Context, r *Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := 1
	var delay time.Duration
	if r != nil {
		attempts = max(r.MaxAttempts, 1)
		delay = r.InitialDelay
	}

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= attempts || !IsRateLimited(err) {
			return zero, err
		}

		wait := r.capped(delay)
		slog.Warn("rate limited, backing off", "attempt", attempt, "maxAttempts", attempts, "delay", wait)
		if err := r.wait(ctx, wait); err != nil {
			return zero, err
		}
		delay *= 2
	}
}

func (r *Retrier) capped(d time.Duration) time.Duration {
	if r.MaxDelay > 0 && d > r.MaxDelay {
		return r.MaxDelay
	}
	return d
}

func (r *Retrier) wait(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
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
