package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

// UserIDHeader carries the authenticated user id. It is set by the edge
// proxy / auth layer earlier in the pipeline and treated as trusted here.
const UserIDHeader = "X-User-ID"

const (
	headerLimit     = "X-RateLimit-Limit"
	headerRemaining = "X-RateLimit-Remaining"
	headerReset     = "X-RateLimit-Reset"
	headerRetry     = "Retry-After"
)

// DecisionRecorder receives one event per limit check, for metrics.
type DecisionRecorder interface {
	RecordRateLimitDecision(scope string, allowed bool)
}

// Middleware gates every request through the sliding-window limiter. The
// user check runs first; when it fails the request is rejected without
// consuming the IP counter. Missing or disabled config, and any limiter
// infrastructure error, fail open.
func Middleware(limiter *Limiter, source ConfigSource, monitor *errmonitor.Monitor, metrics DecisionRecorder, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := source.Get(c.Request.Context())
		if err != nil {
			if l != nil {
				l.Error("rate limit config fetch failed, failing open", map[string]string{
					"error": err.Error(),
				})
			}
			c.Next()
			return
		}
		if cfg == nil || !cfg.Enabled {
			c.Next()
			return
		}

		if userID := c.GetHeader(UserIDHeader); userID != "" {
			res := limiter.Check(c.Request.Context(), "user:"+userID, cfg.UserLimit, cfg.Window)
			record(metrics, "user", res.Allowed)
			if !res.Allowed {
				reject(c, res, monitor, "user:"+userID)
				return
			}
		}

		ip := ClientIP(c)
		res := limiter.Check(c.Request.Context(), "ip:"+ip, cfg.IPLimit, cfg.Window)
		record(metrics, "ip", res.Allowed)
		setLimitHeaders(c, res)
		if !res.Allowed {
			reject(c, res, monitor, "ip:"+ip)
			return
		}

		c.Next()
	}
}

func record(metrics DecisionRecorder, scope string, allowed bool) {
	if metrics != nil {
		metrics.RecordRateLimitDecision(scope, allowed)
	}
}

func reject(c *gin.Context, res Result, monitor *errmonitor.Monitor, key string) {
	setLimitHeaders(c, res)
	c.Header(headerRetry, strconv.FormatInt(res.RetryAfter(time.Now()), 10))

	if monitor != nil {
		monitor.Record("rate limit exceeded", errmonitor.TypeRateLimit, errmonitor.SeverityLow, "ratelimit.middleware", map[string]interface{}{
			"key":        key,
			"limit":      res.Limit,
			"total_hits": res.TotalHits,
			"path":       c.FullPath(),
		})
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"error":   "RATE_LIMIT_ERROR",
		"message": "too many requests, please retry later",
	})
}

func setLimitHeaders(c *gin.Context, res Result) {
	c.Header(headerLimit, strconv.Itoa(res.Limit))
	c.Header(headerRemaining, strconv.Itoa(res.Remaining))
	c.Header(headerReset, strconv.FormatInt(res.ResetTime.UnixMilli(), 10))
}

// ClientIP resolves the caller's address from proxy headers, falling back to
// the raw connection address.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	if cf := c.GetHeader("CF-Connecting-IP"); cf != "" {
		return cf
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
