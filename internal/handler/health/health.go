package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

const checkTimeout = 2 * time.Second

// Response reports the status of each dependency. The service stays up when
// Redis is down (the limiter fails open), so only a dead database degrades
// the overall status.
type Response struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

type handler struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *logger.Logger
}

func New(db *gorm.DB, rdb *redis.Client, logger *logger.Logger) IHandler {
	return &handler{
		db:     db,
		redis:  rdb,
		logger: logger,
	}
}

// Healthz godoc
// @Summary Health check
// @Description Check connectivity of the database and the rate-limit store
// @id healthz
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /healthz [get]
func (h *handler) Healthz(c *gin.Context) {
	resp := Response{
		Status:    "ok",
		Checks:    make(map[string]string),
		Timestamp: time.Now(),
	}

	reqCtx := c.Request.Context()

	dbCtx, dbCancel := contextWithTimeout(reqCtx)
	defer dbCancel()
	if sqlDB, err := h.db.DB(); err != nil {
		resp.Checks["postgres"] = "error: " + err.Error()
		resp.Status = "degraded"
	} else if err := sqlDB.PingContext(dbCtx); err != nil {
		resp.Checks["postgres"] = "error: " + err.Error()
		resp.Status = "degraded"
	} else {
		resp.Checks["postgres"] = "ok"
	}

	redisCtx, redisCancel := contextWithTimeout(reqCtx)
	defer redisCancel()
	if err := h.redis.Ping(redisCtx).Err(); err != nil {
		// Rate limiting fails open without Redis; not fatal.
		resp.Checks["redis"] = "error: " + err.Error()
	} else {
		resp.Checks["redis"] = "ok"
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
		h.logger.Error("health check degraded", map[string]string{
			"postgres": resp.Checks["postgres"],
			"redis":    resp.Checks["redis"],
		})
	}
	c.JSON(code, resp)
}

func contextWithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, checkTimeout)
}
