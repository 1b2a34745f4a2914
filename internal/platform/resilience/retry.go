package resilience

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// Retrier runs an operation under a RetryPolicy. Delays go through sleep so
// tests can observe them without waiting.
type Retrier struct {
	policy RetryPolicy
	sleep  func(context.Context, time.Duration) error
}

func NewRetrier(policy RetryPolicy, sleep func(context.Context, time.Duration) error) *Retrier {
	if sleep == nil {
		sleep = SleepContext
	}
	return &Retrier{policy: NormalizeRetryPolicy(policy), sleep: sleep}
}

func (r *Retrier) Policy() RetryPolicy {
	return r.policy
}

// Delay returns the wait before the attempt following attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * p.Multiplier)
	}
	return delay
}

// Do calls fn until it succeeds or the attempts run out. onRetry, when set,
// is told about each failed attempt that will be retried. The last error is
// returned once the policy is exhausted.
func (r *Retrier) Do(
	ctx context.Context,
	fn func(ctx context.Context, attempt int) error,
	onRetry func(attempt int, delay time.Duration, err error),
) error {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == r.policy.MaxAttempts {
			break
		}

		delay := r.policy.Delay(attempt)
		if onRetry != nil {
			onRetry(attempt, delay, lastErr)
		}
		if err := r.sleep(ctx, delay); err != nil {
			return crerr.WithSecondaryError(err, lastErr)
		}
	}
	return lastErr
}

func SleepContext(ctx context.Context, d time.Duration) error {
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
