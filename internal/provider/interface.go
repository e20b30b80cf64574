package provider

import (
	"context"
	"time"

	"github.com/stockpulse/stockinfo-backend/internal/model"
)

// IDataProvider is a pluggable market-data backend. Implementations must
// return an error on failure, never a sentinel payload.
type IDataProvider interface {
	Name() string
	GetQuotes(ctx context.Context, codes []string, market string, fields []string) ([]model.Quote, error)
	GetKline(ctx context.Context, code, period string, start, end time.Time, limit int) ([]model.KlineBar, error)
	GetNews(ctx context.Context, filter model.NewsFilter) ([]model.NewsItem, error)
	GetIndices(ctx context.Context, market, category string) ([]model.IndexQuote, error)
}

// IManager is the failover-aware fetch surface consumed by handlers.
type IManager interface {
	GetQuotes(ctx context.Context, codes []string, market string, fields []string) ([]model.Quote, Meta, error)
	GetKline(ctx context.Context, code, period string, start, end time.Time, limit int) ([]model.KlineBar, Meta, error)
	GetNews(ctx context.Context, filter model.NewsFilter) ([]model.NewsItem, Meta, error)
	GetIndices(ctx context.Context, market, category string) ([]model.IndexQuote, Meta, error)
	PrimaryName() string
	LastServed() *Meta
}
