package news

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockinfo-backend/internal/model"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
	"github.com/stockpulse/stockinfo-backend/internal/transport/middleware"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
	"github.com/stockpulse/stockinfo-backend/internal/utils/query"
	"github.com/stockpulse/stockinfo-backend/internal/view"
)

type handler struct {
	provider provider.IManager
	logger   *logger.Logger
}

func New(p provider.IManager, logger *logger.Logger) IHandler {
	return &handler{
		provider: p,
		logger:   logger,
	}
}

// GetNews godoc
// @Summary Get market news
// @Description Get market news, optionally filtered by category or related code
// @id getNews
// @Tags News
// @Accept json
// @Produce json
// @Param category query string false "news category"
// @Param code query string false "related instrument code"
// @Param page query int false "page number"
// @Param page_size query int false "page size, max 200"
// @Success 200 {object} view.Response[[]model.NewsItem]
// @Failure 400 {object} view.ValidationErrorResponse
// @Failure 503 {object} view.Response[any]
// @Router /news [get]
func (h *handler) GetNews(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	pagination, fieldErrs := query.ParsePagination(c.Query("page"), c.Query("page_size"))
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse(fieldErrs, requestID))
		return
	}

	filter := model.NewsFilter{
		Category: c.Query("category"),
		Code:     c.Query("code"),
		// Fetch enough articles to cover the requested page.
		Limit: pagination.Page * pagination.PageSize,
	}

	start := time.Now()
	items, meta, err := h.provider.GetNews(c.Request.Context(), filter)
	elapsed := time.Since(start)

	if err != nil {
		h.logger.Error("news fetch failed", map[string]string{
			"error":      err.Error(),
			"durationMs": elapsed.String(),
		})
		c.JSON(http.StatusServiceUnavailable, view.CreateResponse[any](nil, err, requestID, "news is temporarily unavailable"))
		return
	}

	paged, pg := query.Window(items, pagination)
	resp := view.CreateMarketResponse(paged, meta.Provider, meta.IsPrimary, len(paged), pg)
	resp.RequestID = requestID
	c.JSON(http.StatusOK, resp)
}
