package breaker

import (
	"sync"

	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

// Manager is a registry of named circuit breakers. Breakers are created
// lazily on first use with the manager's default config. Breaker state is
// per-instance: each process trips its own breakers independently.
type Manager struct {
	defaults Config
	logger   *logger.Logger

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewManager creates an empty registry. State changes of every breaker are
// logged; cfg.OnStateChange is additionally invoked when set (e.g. to update
// metrics).
func NewManager(cfg Config, l *logger.Logger) *Manager {
	return &Manager{
		defaults: cfg,
		logger:   l,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for name, creating it with default config when
// first seen.
func (m *Manager) Get(name string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cb, ok := m.breakers[name]; ok {
		return cb
	}

	cfg := m.defaults
	external := cfg.OnStateChange
	cfg.OnStateChange = func(name string, from, to State) {
		if m.logger != nil {
			m.logger.Info("circuit breaker state change", map[string]string{
				"breaker": name,
				"from":    string(from),
				"to":      string(to),
			})
		}
		if external != nil {
			external(name, from, to)
		}
	}

	cb := New(name, cfg)
	m.breakers[name] = cb
	return cb
}

// AllStats returns a snapshot of every registered breaker.
func (m *Manager) AllStats() []Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make([]Stats, 0, len(m.breakers))
	for _, cb := range m.breakers {
		stats = append(stats, cb.Stats())
	}
	return stats
}

// Reset forces the named breaker back to closed with counters zeroed.
// Returns false if the name is unknown.
func (m *Manager) Reset(name string) bool {
	m.mu.Lock()
	cb, ok := m.breakers[name]
	m.mu.Unlock()

	if !ok {
		return false
	}
	cb.Reset()
	return true
}

// ResetAll resets every registered breaker and returns how many were reset.
func (m *Manager) ResetAll() int {
	m.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(m.breakers))
	for _, cb := range m.breakers {
		breakers = append(breakers, cb)
	}
	m.mu.Unlock()

	for _, cb := range breakers {
		cb.Reset()
	}
	return len(breakers)
}

// Count returns the number of registered breakers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.breakers)
}
