package breaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream failed")

func newTestBreaker(cfg Config) (*CircuitBreaker, *time.Time) {
	cb := New("test", cfg)
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }
	return cb, &now
}

func fail(ctx context.Context) error    { return errUpstream }
func succeed(ctx context.Context) error { return nil }

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3, SuccessThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), fail)
		assert.ErrorIs(t, err, errUpstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	// The next call must be rejected without invoking the operation.
	invoked := false
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		invoked = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, invoked)

	// Short-circuited calls are protection, not attempts: totals unchanged.
	stats := cb.Stats()
	assert.Equal(t, int64(3), stats.TotalRequests)
	assert.Equal(t, int64(3), stats.FailedRequests)
	assert.Equal(t, int64(0), stats.SuccessfulRequests)
}

func TestBreakerCounterInvariant(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 10, SuccessThreshold: 2, OpenTimeout: time.Minute})

	ops := []func(context.Context) error{succeed, fail, succeed, succeed, fail, succeed}
	for _, op := range ops {
		_ = cb.Execute(context.Background(), op)
		stats := cb.Stats()
		assert.Equal(t, stats.TotalRequests, stats.SuccessfulRequests+stats.FailedRequests)
	}

	stats := cb.Stats()
	assert.Equal(t, int64(6), stats.TotalRequests)
	assert.Equal(t, int64(4), stats.SuccessfulRequests)
	assert.Equal(t, int64(2), stats.FailedRequests)
}

func TestBreakerConsecutiveCountersAreExclusive(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 10, SuccessThreshold: 5, OpenTimeout: time.Minute})

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	stats := cb.Stats()
	assert.Equal(t, 2, stats.ConsecutiveFailures)
	assert.Equal(t, 0, stats.ConsecutiveSuccesses)

	_ = cb.Execute(context.Background(), succeed)
	stats = cb.Stats()
	assert.Equal(t, 0, stats.ConsecutiveFailures)
	assert.Equal(t, 1, stats.ConsecutiveSuccesses)
}

func TestBreakerStaysOpenUntilProbed(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Minute})

	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	// Cooldown elapses but no call arrives. The transition is lazy: the
	// breaker does not probe spontaneously.
	*now = now.Add(2 * time.Minute)
	assert.Equal(t, StateOpen, cb.State())

	// The next call is the probe.
	err := cb.Execute(context.Background(), succeed)
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerRecovery(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 2, SuccessThreshold: 2, OpenTimeout: 30 * time.Second})

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	// Before the cooldown elapses every call is rejected.
	*now = now.Add(10 * time.Second)
	assert.ErrorIs(t, cb.Execute(context.Background(), succeed), ErrCircuitOpen)

	// After the cooldown the probe goes through; one success is not enough
	// to close with SuccessThreshold=2.
	*now = now.Add(25 * time.Second)
	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 1, SuccessThreshold: 3, OpenTimeout: time.Second})

	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	*now = now.Add(2 * time.Second)
	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errUpstream)
	assert.Equal(t, StateOpen, cb.State())

	// Re-opening restarts the cooldown from the probe failure.
	assert.ErrorIs(t, cb.Execute(context.Background(), succeed), ErrCircuitOpen)
}

func TestBreakerReset(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Minute})

	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()

	stats := cb.Stats()
	assert.Equal(t, StateClosed, stats.State)
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, int64(0), stats.FailedRequests)
	assert.Nil(t, stats.OpenedAt)
	assert.NoError(t, cb.Execute(context.Background(), succeed))
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string
	cb, now := newTestBreaker(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, string(from)+"->"+string(to))
		},
	})

	_ = cb.Execute(context.Background(), fail)
	*now = now.Add(2 * time.Second)
	_ = cb.Execute(context.Background(), succeed)

	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}

func TestBreakerConcurrentExecutes(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 1000, SuccessThreshold: 2, OpenTimeout: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			op := succeed
			if i%2 == 0 {
				op = fail
			}
			for j := 0; j < 20; j++ {
				_ = cb.Execute(context.Background(), op)
			}
		}(i)
	}
	wg.Wait()

	stats := cb.Stats()
	assert.Equal(t, int64(1000), stats.TotalRequests)
	assert.Equal(t, stats.TotalRequests, stats.SuccessfulRequests+stats.FailedRequests)
}
