package http

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	_ "github.com/stockpulse/stockinfo-backend/docs"
	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/handler"
	"github.com/stockpulse/stockinfo-backend/internal/monitoring"
	"github.com/stockpulse/stockinfo-backend/internal/ratelimit"
	"github.com/stockpulse/stockinfo-backend/internal/transport/middleware"
	"github.com/stockpulse/stockinfo-backend/internal/utils/config"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

func setupCORS(r *gin.Engine, cfg *config.AppConfig) {
	corsOrigins := strings.Split(cfg.ApiServer.AllowedOrigins, ";")
	r.Use(cors.New(
		cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
			AllowHeaders: []string{
				"Origin", "Host", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Accept",
				"X-CSRF-Token", "Authorization", "X-Requested-With", middleware.UserIDHeader, middleware.RequestIDHeader,
			},
			AllowCredentials: true,
		},
	))
}

// NewHttpServer assembles the gin engine: recovery, CORS, request ids, rate
// limiting on the market surface, swagger, and the versioned routes.
func NewHttpServer(
	appConfig *config.AppConfig,
	logger *logger.Logger,
	h *handler.Handler,
	rateLimiter *ratelimit.Limiter,
	rateLimitSource ratelimit.ConfigSource,
	errMonitor *errmonitor.Monitor,
	appMetrics *monitoring.Metrics,
) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		middleware.RequestID(),
		middleware.Recovery(errMonitor, logger),
	)
	setupCORS(r, appConfig)

	// use ginSwagger middleware to serve the API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rateLimitMW := ratelimit.Middleware(rateLimiter, rateLimitSource, errMonitor, appMetrics, logger)
	loadV1Routes(r, h, appConfig, rateLimitMW)

	return r
}
