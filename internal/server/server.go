package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/stockpulse/stockinfo-backend/internal/breaker"
	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/handler"
	"github.com/stockpulse/stockinfo-backend/internal/model"
	"github.com/stockpulse/stockinfo-backend/internal/monitoring"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
	"github.com/stockpulse/stockinfo-backend/internal/provider/hqfeed"
	"github.com/stockpulse/stockinfo-backend/internal/provider/mockfeed"
	"github.com/stockpulse/stockinfo-backend/internal/ratelimit"
	ratelimitstore "github.com/stockpulse/stockinfo-backend/internal/ratelimit/store"
	"github.com/stockpulse/stockinfo-backend/internal/store"
	pgstore "github.com/stockpulse/stockinfo-backend/internal/store/postgres"
	"github.com/stockpulse/stockinfo-backend/internal/transport/http"
	"github.com/stockpulse/stockinfo-backend/internal/utils/config"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

const healthProbeTimeout = 5 * time.Second

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)
	if err := db.AutoMigrate(&model.WatchlistItem{}, &model.RateLimitConfig{}); err != nil {
		logger.Error("failed to run migrations", map[string]string{"error": err.Error()})
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     appConfig.Redis.Addr,
		Password: appConfig.Redis.Pass,
		DB:       appConfig.Redis.DB,
	})

	s := store.New()

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := monitoring.NewMetrics()
	appMetrics.MustRegister(metricsRegistry)

	breakers := breaker.NewManager(breaker.Config{
		FailureThreshold: appConfig.Breaker.FailureThreshold,
		SuccessThreshold: appConfig.Breaker.SuccessThreshold,
		OpenTimeout:      appConfig.Breaker.OpenTimeout,
		OnStateChange: func(name string, from, to breaker.State) {
			appMetrics.UpdateCircuitBreakerState(name, to)
		},
	}, logger)

	errMonitor := errmonitor.New(errmonitor.DefaultMaxRecords, logger)

	primary, fallback := buildProviders(appConfig, logger)
	providers := provider.NewManager(primary, fallback, breakers, errMonitor, logger)

	rateLimiter := ratelimit.NewLimiter(ratelimitstore.NewRedis(rdb, logger), logger)
	rateLimitSource := ratelimit.NewDBConfigSource(db, s.RateLimitConfig, 5*time.Second)

	h := handler.New(logger, providers, breakers, errMonitor, db, rdb, s, appMetrics, metricsRegistry)

	c := cron.New()
	c.AddFunc("@every 2m", func() {
		probePrimary(primary, errMonitor, logger)
	})
	c.Start()

	httpServer := http.NewHttpServer(appConfig, logger, h, rateLimiter, rateLimitSource, errMonitor, appMetrics)

	logger.Info("starting http server", map[string]string{
		"addr":     appConfig.ApiServer.Addr,
		"provider": primary.Name(),
	})
	httpServer.Run(appConfig.ApiServer.Addr)
}

// buildProviders selects the primary by DATA_PROVIDER; the deterministic mock
// always backs it so a primary outage degrades rather than fails.
func buildProviders(appConfig *config.AppConfig, logger *logger.Logger) (provider.IDataProvider, provider.IDataProvider) {
	mock := mockfeed.New()
	if appConfig.Provider.Source == "mock" {
		return mock, mock
	}
	return hqfeed.New(appConfig, logger), mock
}

// probePrimary checks the primary upstream periodically so outages are
// recorded even without inbound traffic.
func probePrimary(primary provider.IDataProvider, monitor *errmonitor.Monitor, logger *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
	defer cancel()

	if _, err := primary.GetIndices(ctx, "", ""); err != nil {
		monitor.Record(err.Error(), errmonitor.TypeNetwork, errmonitor.SeverityLow,
			"server.healthprobe", map[string]interface{}{"provider": primary.Name()})
		return
	}
	logger.Info("provider health probe ok", map[string]string{"provider": primary.Name()})
}
