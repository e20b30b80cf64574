package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

type redisStore struct {
	rdb    *redis.Client
	logger *logger.Logger
}

// NewRedis creates a CounterStore over a redis client.
func NewRedis(rdb *redis.Client, l *logger.Logger) CounterStore {
	return &redisStore{
		rdb:    rdb,
		logger: l,
	}
}

func (s *redisStore) Increment(ctx context.Context, key string, window time.Duration) (Counter, error) {
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return Counter{}, err
	}

	// First hit of a fresh window: arm the expiry. Later hits inherit the
	// window set by the first one.
	if count == 1 {
		if err := s.rdb.PExpire(ctx, key, window).Err(); err != nil {
			s.logger.Error("failed to set rate limit key expiry", map[string]string{
				"key":   key,
				"error": err.Error(),
			})
		}
		return Counter{Count: count, TTL: window}, nil
	}

	ttl, err := s.rdb.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		// Key exists without expiry (PExpire failed earlier); re-arm it and
		// treat the full window as remaining rather than leaving it unbounded.
		if setErr := s.rdb.PExpire(ctx, key, window).Err(); setErr != nil {
			s.logger.Error("failed to re-arm rate limit key expiry", map[string]string{
				"key":   key,
				"error": setErr.Error(),
			})
		}
		ttl = window
	}

	return Counter{Count: count, TTL: ttl}, nil
}

func (s *redisStore) GetCount(ctx context.Context, key string) (Counter, error) {
	count, err := s.rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return Counter{}, nil
	}
	if err != nil {
		return Counter{}, err
	}

	ttl, err := s.rdb.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = 0
	}

	return Counter{Count: count, TTL: ttl}, nil
}

func (s *redisStore) Reset(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
