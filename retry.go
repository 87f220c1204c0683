package ell

import (
	"context"
	"time"
)

// RetryPolicy configures exponential-backoff retry for a task body, grounded
// on this domain's worker-runner cousins' RetryPolicy/DefaultRetryPolicy.
// It is a combinator over Sleep and an ordinary call, not a new scheduler
// primitive — the same way this package's Semaphore and WaitGroup are built
// entirely out of WaitHandler rather than new loop machinery.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retry attempts (0 = no retry).
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// BackoffRatio multiplies the delay after each retry (2.0 = doubling).
	BackoffRatio float64
}

// DefaultRetryPolicy returns a sensible default: 3 retries, 100ms initial
// delay doubling up to a 5s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		BackoffRatio: 2.0,
	}
}

// NoRetry returns a policy that never retries.
func NoRetry() RetryPolicy {
	return RetryPolicy{BackoffRatio: 1.0}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.InitialDelay <= 0 {
		return 0
	}
	d := float64(p.InitialDelay)
	for i := 0; i < attempt; i++ {
		d *= p.BackoffRatio
	}
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

// Retry runs op on the current task's loop, via Call, retrying with
// exponential backoff (via Sleep) according to p whenever op returns a
// non-nil error. It returns the first successful result, or the last
// error once MaxRetries has been exhausted.
func Retry(ctx context.Context, p RetryPolicy, op OpFunc) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if d := p.delay(attempt - 1); d > 0 {
				Sleep(ctx, d)
			}
		}
		v, err := Call(ctx, op)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
