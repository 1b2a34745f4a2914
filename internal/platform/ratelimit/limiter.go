package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces actions at least minInterval apart. Slot selection happens
// under the rate.Limiter mutex; callers sleep outside it, so concurrent
// waiters never share a slot.
type Limiter struct {
	interval time.Duration
	limiter  *rate.Limiter
}

func New(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{
		interval: minInterval,
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the next slot. It cannot be cancelled.
func (l *Limiter) Wait() {
	if l == nil {
		return
	}
	r := l.limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		time.Sleep(delay)
	}
}

// WaitContext is Wait for callers that already hold a context. A cancelled
// context gives its slot back.
func (l *Limiter) WaitContext(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
