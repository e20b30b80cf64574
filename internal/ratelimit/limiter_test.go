package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockinfo-backend/internal/ratelimit/store"
	"github.com/stockpulse/stockinfo-backend/internal/types/environments"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := logger.New(environments.Test)
	return NewLimiter(store.NewRedis(rdb, l), l), mr
}

func TestLimiterDecreasingRemaining(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	const limit = 5
	for i := 1; i <= limit; i++ {
		res := limiter.Check(ctx, "user:42", limit, time.Minute)
		assert.True(t, res.Allowed)
		assert.Equal(t, limit-i, res.Remaining)
		assert.Equal(t, int64(i), res.TotalHits)
	}

	res := limiter.Check(ctx, "user:42", limit, time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, int64(limit+1), res.TotalHits)
}

func TestLimiterWindowReset(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limiter.Check(ctx, "ip:10.0.0.1", 3, time.Minute)
	}
	res := limiter.Check(ctx, "ip:10.0.0.1", 3, time.Minute)
	require.False(t, res.Allowed)

	// The window elapses with no calls; the next call starts fresh.
	mr.FastForward(61 * time.Second)

	res = limiter.Check(ctx, "ip:10.0.0.1", 3, time.Minute)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.TotalHits)
	assert.Equal(t, 2, res.Remaining)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	limiter.Check(ctx, "user:1", 2, time.Minute)
	limiter.Check(ctx, "user:1", 2, time.Minute)
	res := limiter.Check(ctx, "user:1", 2, time.Minute)
	require.False(t, res.Allowed)

	res = limiter.Check(ctx, "user:2", 2, time.Minute)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.TotalHits)
}

// Store failures must never block traffic.
func TestLimiterFailsOpenWhenStoreDown(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	mr.Close()

	res := limiter.Check(context.Background(), "user:42", 3, time.Minute)
	assert.True(t, res.Allowed)
	assert.Equal(t, 3, res.Remaining)
}

func TestResultRetryAfterRoundsUp(t *testing.T) {
	now := time.Now()
	res := Result{ResetTime: now.Add(1500 * time.Millisecond)}
	assert.Equal(t, int64(2), res.RetryAfter(now))

	res = Result{ResetTime: now.Add(-time.Second)}
	assert.Equal(t, int64(0), res.RetryAfter(now))
}
