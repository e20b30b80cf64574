package http

import (
	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockinfo-backend/internal/handler"
	"github.com/stockpulse/stockinfo-backend/internal/transport/middleware"
	"github.com/stockpulse/stockinfo-backend/internal/utils/config"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, appConfig *config.AppConfig, rateLimitMW gin.HandlerFunc) {
	v1 := r.Group("/api/v1")

	market := v1.Group("/market", rateLimitMW)
	{
		market.GET("/quotes", h.MarketHandler.GetQuotes)
		market.GET("/kline", h.MarketHandler.GetKline)
		market.GET("/indices", h.MarketHandler.GetIndices)
	}

	v1.GET("/news", rateLimitMW, h.NewsHandler.GetNews)

	watchlist := v1.Group("/watchlist", rateLimitMW)
	{
		watchlist.GET("", h.WatchlistHandler.List)
		watchlist.POST("", h.WatchlistHandler.Add)
		watchlist.DELETE("/:id", h.WatchlistHandler.Remove)
	}

	monitor := v1.Group("/monitor")
	{
		monitor.GET("/circuit-breakers", h.MonitorHandler.GetCircuitBreakers)
		monitor.POST("/circuit-breakers", middleware.JWTAuth(appConfig), h.MonitorHandler.ResetCircuitBreakers)
		monitor.GET("/errors", h.MonitorHandler.GetErrors)
		monitor.POST("/errors", middleware.JWTAuth(appConfig), h.MonitorHandler.PostErrors)
		monitor.GET("/rate-limit", h.MonitorHandler.GetRateLimitConfig)
		monitor.PUT("/rate-limit", middleware.JWTAuth(appConfig), h.MonitorHandler.PutRateLimitConfig)
	}

	r.GET("/healthz", h.HealthHandler.Healthz)
	r.GET("/metrics", h.MetricsHandler.Handler())
}
