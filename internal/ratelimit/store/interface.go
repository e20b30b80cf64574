package store

import (
	"context"
	"time"
)

// Counter is the state of one rate-limit key.
type Counter struct {
	Count int64
	TTL   time.Duration
}

// CounterStore is the shared, externally consistent counter backing the
// sliding-window limiter. All process instances must agree on counts, so the
// implementation must support atomic increment with expiry.
type CounterStore interface {
	// Increment atomically bumps the counter for key, starting a new window
	// of the given length when the key does not exist yet.
	Increment(ctx context.Context, key string, window time.Duration) (Counter, error)

	// GetCount returns the current counter without modifying it. A missing
	// key reads as zero.
	GetCount(ctx context.Context, key string) (Counter, error)

	// Reset removes the counter for key.
	Reset(ctx context.Context, key string) error
}
