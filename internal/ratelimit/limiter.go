package ratelimit

import (
	"context"
	"time"

	"github.com/stockpulse/stockinfo-backend/internal/ratelimit/store"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

// Result is the outcome of one sliding-window check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
	TotalHits int64
}

// Limiter counts hits per key in a rolling window over a shared counter
// store. Infrastructure failures in the store never block traffic: the
// limiter fails open and reports the request as allowed.
type Limiter struct {
	store  store.CounterStore
	logger *logger.Logger
	now    func() time.Time
}

func NewLimiter(s store.CounterStore, l *logger.Logger) *Limiter {
	return &Limiter{
		store:  s,
		logger: l,
		now:    time.Now,
	}
}

// Check consumes one hit for key and reports whether the request fits inside
// limit for the current window.
func (l *Limiter) Check(ctx context.Context, key string, limit int, window time.Duration) Result {
	counter, err := l.store.Increment(ctx, key, window)
	if err != nil {
		if l.logger != nil {
			l.logger.Error("rate limit store unavailable, failing open", map[string]string{
				"key":   key,
				"error": err.Error(),
			})
		}
		return Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: l.now().Add(window),
		}
	}

	remaining := limit - int(counter.Count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   counter.Count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetTime: l.now().Add(counter.TTL),
		TotalHits: counter.Count,
	}
}

// RetryAfter returns the whole seconds a limited client should wait,
// rounded up.
func (r Result) RetryAfter(now time.Time) int64 {
	d := r.ResetTime.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
