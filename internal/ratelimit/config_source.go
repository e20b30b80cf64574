package ratelimit

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/store/ratelimitconfig"
)

// Config are the active rate-limit settings. A nil Config from a source
// means "do not limit".
type Config struct {
	Enabled   bool
	UserLimit int
	IPLimit   int
	Window    time.Duration
}

// ConfigSource supplies the current settings. It is consulted per request so
// limits can change without a redeploy.
type ConfigSource interface {
	Get(ctx context.Context) (*Config, error)
}

// DBConfigSource reads the config row through the store with a short-lived
// cache in front, so the database is not hit on every request.
type DBConfigSource struct {
	db       *gorm.DB
	store    ratelimitconfig.IStore
	cacheTTL time.Duration
	now      func() time.Time

	mu        sync.Mutex
	cached    *Config
	fetchedAt time.Time
}

func NewDBConfigSource(db *gorm.DB, s ratelimitconfig.IStore, cacheTTL time.Duration) *DBConfigSource {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Second
	}
	return &DBConfigSource{
		db:       db,
		store:    s,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func (s *DBConfigSource) Get(ctx context.Context) (*Config, error) {
	s.mu.Lock()
	if !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.cacheTTL {
		cfg := s.cached
		s.mu.Unlock()
		return cfg, nil
	}
	s.mu.Unlock()

	row, err := s.store.Get(s.db.WithContext(ctx))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			s.setCache(nil)
			return nil, nil
		}
		return nil, err
	}

	cfg := &Config{
		Enabled:   row.Enabled,
		UserLimit: row.UserLimit,
		IPLimit:   row.IPLimit,
		Window:    time.Duration(row.WindowMs) * time.Millisecond,
	}
	s.setCache(cfg)
	return cfg, nil
}

func (s *DBConfigSource) setCache(cfg *Config) {
	s.mu.Lock()
	s.cached = cfg
	s.fetchedAt = s.now()
	s.mu.Unlock()
}

// StaticConfigSource returns a fixed config; used in tests and for
// environments without the config table.
type StaticConfigSource struct {
	Config *Config
}

func (s StaticConfigSource) Get(ctx context.Context) (*Config, error) {
	return s.Config, nil
}
