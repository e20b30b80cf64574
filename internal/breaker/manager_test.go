package breaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLazyRegistration(t *testing.T) {
	m := NewManager(Config{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute}, nil)

	assert.Equal(t, 0, m.Count())

	a := m.Get("hqfeed")
	b := m.Get("hqfeed")
	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Count())

	m.Get("newsfeed")
	assert.Equal(t, 2, m.Count())
}

func TestManagerReset(t *testing.T) {
	m := NewManager(Config{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Minute}, nil)

	cb := m.Get("hqfeed")
	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	assert.False(t, m.Reset("unknown"))
	assert.True(t, m.Reset("hqfeed"))
	assert.Equal(t, StateClosed, cb.State())
}

func TestManagerResetAll(t *testing.T) {
	m := NewManager(Config{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Minute}, nil)

	for _, name := range []string{"a", "b", "c"} {
		cb := m.Get(name)
		_ = cb.Execute(context.Background(), fail)
		require.Equal(t, StateOpen, cb.State())
	}

	assert.Equal(t, 3, m.ResetAll())
	for _, s := range m.AllStats() {
		assert.Equal(t, StateClosed, s.State)
		assert.Equal(t, int64(0), s.TotalRequests)
	}
}

func TestManagerAllStats(t *testing.T) {
	m := NewManager(Config{FailureThreshold: 5, SuccessThreshold: 1, OpenTimeout: time.Minute}, nil)

	_ = m.Get("hqfeed").Execute(context.Background(), succeed)
	_ = m.Get("newsfeed").Execute(context.Background(), fail)

	stats := m.AllStats()
	require.Len(t, stats, 2)

	byName := map[string]Stats{}
	for _, s := range stats {
		byName[s.Name] = s
	}
	assert.Equal(t, int64(1), byName["hqfeed"].SuccessfulRequests)
	assert.Equal(t, int64(1), byName["newsfeed"].FailedRequests)
}
