package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
	"github.com/stockpulse/stockinfo-backend/internal/view"
)

// Recovery catches panics from downstream handlers, records them as system
// errors and answers with the generic 500 envelope. The panic value never
// reaches the client; only the request id does.
func Recovery(monitor *errmonitor.Monitor, l *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := fmt.Sprintf("%v", recovered)

		if l != nil {
			l.Error("panic recovered", map[string]string{
				"path":  c.FullPath(),
				"error": msg,
			})
		}
		if monitor != nil {
			monitor.Record(msg, errmonitor.TypeSystem, errmonitor.SeverityHigh, "http.recovery", map[string]interface{}{
				"path":   c.FullPath(),
				"method": c.Request.Method,
			})
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			view.CreateResponse[any](nil, errors.New("internal server error"), GetRequestID(c), "an unexpected error occurred"))
	})
}
