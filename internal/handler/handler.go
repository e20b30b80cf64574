package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/breaker"
	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/handler/health"
	"github.com/stockpulse/stockinfo-backend/internal/handler/market"
	"github.com/stockpulse/stockinfo-backend/internal/handler/metrics"
	"github.com/stockpulse/stockinfo-backend/internal/handler/monitor"
	"github.com/stockpulse/stockinfo-backend/internal/handler/news"
	"github.com/stockpulse/stockinfo-backend/internal/handler/watchlist"
	"github.com/stockpulse/stockinfo-backend/internal/monitoring"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
	"github.com/stockpulse/stockinfo-backend/internal/store"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

type Handler struct {
	MarketHandler    market.IHandler
	NewsHandler      news.IHandler
	WatchlistHandler watchlist.IHandler
	MonitorHandler   monitor.IHandler
	HealthHandler    health.IHandler
	MetricsHandler   *metrics.MetricsHandler
}

func New(
	logger *logger.Logger,
	providers provider.IManager,
	breakers *breaker.Manager,
	errMonitor *errmonitor.Monitor,
	db *gorm.DB,
	rdb *redis.Client,
	repo *store.Store,
	appMetrics *monitoring.Metrics,
	metricsRegistry *prometheus.Registry,
) *Handler {
	return &Handler{
		MarketHandler:    market.New(providers, logger, appMetrics),
		NewsHandler:      news.New(providers, logger),
		WatchlistHandler: watchlist.New(db, repo.Watchlist, logger),
		MonitorHandler:   monitor.New(breakers, errMonitor, providers, db, repo.RateLimitConfig, logger),
		HealthHandler:    health.New(db, rdb, logger),
		MetricsHandler:   metrics.NewMetricsHandler(metricsRegistry),
	}
}
