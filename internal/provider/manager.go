package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stockpulse/stockinfo-backend/internal/breaker"
	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/model"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

// Meta identifies which provider served a call. It is a per-call return
// value, never shared state, so concurrent requests cannot observe each
// other's provider identity.
type Meta struct {
	Provider  string    `json:"provider"`
	IsPrimary bool      `json:"is_primary"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Manager selects the provider for each market-data call. Every primary call
// runs under the primary's circuit breaker; on any failure, including an
// open breaker, the fallback is invoked directly. The fallback's outcome is
// not breaker-tracked: it is the last line of defense, and tripping a
// breaker on it would leave nothing to serve requests.
type Manager struct {
	primary  IDataProvider
	fallback IDataProvider
	breakers *breaker.Manager
	monitor  *errmonitor.Monitor
	logger   *logger.Logger

	mu         sync.Mutex
	lastServed *Meta
}

func NewManager(primary, fallback IDataProvider, breakers *breaker.Manager, monitor *errmonitor.Monitor, l *logger.Logger) *Manager {
	return &Manager{
		primary:  primary,
		fallback: fallback,
		breakers: breakers,
		monitor:  monitor,
		logger:   l,
	}
}

// PrimaryName returns the identity of the configured primary provider.
func (m *Manager) PrimaryName() string {
	return m.primary.Name()
}

// LastServed reports which provider served the most recent call. It is an
// informational snapshot for the monitoring endpoint only; fetch results
// carry their own Meta.
func (m *Manager) LastServed() *Meta {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastServed == nil {
		return nil
	}
	served := *m.lastServed
	return &served
}

func (m *Manager) GetQuotes(ctx context.Context, codes []string, market string, fields []string) ([]model.Quote, Meta, error) {
	return fetch(ctx, m, "GetQuotes", func(ctx context.Context, p IDataProvider) ([]model.Quote, error) {
		return p.GetQuotes(ctx, codes, market, fields)
	})
}

func (m *Manager) GetKline(ctx context.Context, code, period string, start, end time.Time, limit int) ([]model.KlineBar, Meta, error) {
	return fetch(ctx, m, "GetKline", func(ctx context.Context, p IDataProvider) ([]model.KlineBar, error) {
		return p.GetKline(ctx, code, period, start, end, limit)
	})
}

func (m *Manager) GetNews(ctx context.Context, filter model.NewsFilter) ([]model.NewsItem, Meta, error) {
	return fetch(ctx, m, "GetNews", func(ctx context.Context, p IDataProvider) ([]model.NewsItem, error) {
		return p.GetNews(ctx, filter)
	})
}

func (m *Manager) GetIndices(ctx context.Context, market, category string) ([]model.IndexQuote, Meta, error) {
	return fetch(ctx, m, "GetIndices", func(ctx context.Context, p IDataProvider) ([]model.IndexQuote, error) {
		return p.GetIndices(ctx, market, category)
	})
}

func fetch[T any](ctx context.Context, m *Manager, operation string, call func(context.Context, IDataProvider) (T, error)) (T, Meta, error) {
	var data T

	cb := m.breakers.Get(m.primary.Name())
	err := cb.Execute(ctx, func(ctx context.Context) error {
		d, callErr := call(ctx, m.primary)
		if callErr != nil {
			return callErr
		}
		data = d
		return nil
	})

	if err == nil {
		meta := m.served(m.primary.Name(), true)
		return data, meta, nil
	}

	m.recordPrimaryFailure(operation, err)

	fallbackData, fallbackErr := call(ctx, m.fallback)
	if fallbackErr != nil {
		if m.monitor != nil {
			m.monitor.Record(fallbackErr.Error(), errmonitor.TypeAPI, errmonitor.SeverityCritical,
				"provider."+operation, map[string]interface{}{
					"provider": m.fallback.Name(),
					"role":     "fallback",
				})
		}
		var zero T
		return zero, Meta{}, fmt.Errorf("all providers failed: %s: %v; %s: %v",
			m.primary.Name(), err, m.fallback.Name(), fallbackErr)
	}

	meta := m.served(m.fallback.Name(), false)
	return fallbackData, meta, nil
}

func (m *Manager) recordPrimaryFailure(operation string, err error) {
	if m.logger != nil {
		m.logger.Error("primary provider call failed, using fallback", map[string]string{
			"provider":  m.primary.Name(),
			"operation": operation,
			"error":     err.Error(),
		})
	}
	if m.monitor == nil {
		return
	}

	if err == breaker.ErrCircuitOpen {
		m.monitor.Record("primary provider short-circuited", errmonitor.TypeCircuit, errmonitor.SeverityMedium,
			"provider."+operation, map[string]interface{}{
				"provider": m.primary.Name(),
			})
		return
	}

	m.monitor.Record(err.Error(), errmonitor.TypeNetwork, errmonitor.SeverityHigh,
		"provider."+operation, map[string]interface{}{
			"provider": m.primary.Name(),
		})
}

func (m *Manager) served(name string, isPrimary bool) Meta {
	meta := Meta{
		Provider:  name,
		IsPrimary: isPrimary,
		FetchedAt: time.Now(),
	}

	m.mu.Lock()
	m.lastServed = &meta
	m.mu.Unlock()

	return meta
}
