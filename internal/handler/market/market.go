package market

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockpulse/stockinfo-backend/internal/monitoring"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
	"github.com/stockpulse/stockinfo-backend/internal/transport/middleware"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
	"github.com/stockpulse/stockinfo-backend/internal/utils/query"
	"github.com/stockpulse/stockinfo-backend/internal/view"
)

const (
	maxQuoteCodes   = 50
	defaultBarLimit = 100
	maxBarLimit     = 1000
)

var validPeriods = map[string]bool{
	"1m": true, "5m": true, "15m": true, "30m": true, "60m": true,
	"day": true, "week": true, "month": true,
}

type handler struct {
	provider provider.IManager
	logger   *logger.Logger
	metrics  *monitoring.Metrics
}

func New(p provider.IManager, logger *logger.Logger, metrics *monitoring.Metrics) IHandler {
	return &handler{
		provider: p,
		logger:   logger,
		metrics:  metrics,
	}
}

// GetQuotes godoc
// @Summary Get realtime quotes
// @Description Get realtime quotes for up to 50 instrument codes
// @id getQuotes
// @Tags Market
// @Accept json
// @Produce json
// @Param codes query string true "comma-separated instrument codes"
// @Param market query string false "market filter (SH, SZ, BJ, HK, US)"
// @Param fields query string false "comma-separated field names to request"
// @Param page query int false "page number"
// @Param page_size query int false "page size, max 200"
// @Success 200 {object} view.Response[[]model.Quote]
// @Failure 400 {object} view.ValidationErrorResponse
// @Failure 503 {object} view.Response[any]
// @Router /market/quotes [get]
func (h *handler) GetQuotes(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	codes, fields := parseQuotesParams(c)
	pagination, fieldErrs := query.ParsePagination(c.Query("page"), c.Query("page_size"))
	if len(codes) == 0 {
		fieldErrs = append(fieldErrs, view.FieldError{Field: "codes", Message: "at least one code is required"})
	} else if len(codes) > maxQuoteCodes {
		fieldErrs = append(fieldErrs, view.FieldError{Field: "codes", Message: "at most " + strconv.Itoa(maxQuoteCodes) + " codes per request"})
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse(fieldErrs, requestID))
		return
	}

	start := time.Now()
	quotes, meta, err := h.provider.GetQuotes(c.Request.Context(), codes, c.Query("market"), fields)
	h.recordCall("quotes", meta, err, time.Since(start))

	if err != nil {
		h.logger.Error("quotes fetch failed", map[string]string{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, view.CreateResponse[any](nil, err, requestID, "market data is temporarily unavailable"))
		return
	}

	paged, pg := query.Window(quotes, pagination)
	resp := view.CreateMarketResponse(paged, meta.Provider, meta.IsPrimary, len(paged), pg)
	resp.RequestID = requestID
	c.JSON(http.StatusOK, resp)
}

// GetKline godoc
// @Summary Get kline bars
// @Description Get OHLCV bars for an instrument over a period
// @id getKline
// @Tags Market
// @Accept json
// @Produce json
// @Param code query string true "instrument code"
// @Param period query string true "bar period (1m, 5m, 15m, 30m, 60m, day, week, month)"
// @Param start query int false "window start, epoch milliseconds"
// @Param end query int false "window end, epoch milliseconds"
// @Param limit query int false "max bars, default 100, max 1000"
// @Success 200 {object} view.Response[[]model.KlineBar]
// @Failure 400 {object} view.ValidationErrorResponse
// @Failure 503 {object} view.Response[any]
// @Router /market/kline [get]
func (h *handler) GetKline(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	code := strings.TrimSpace(c.Query("code"))
	period := c.DefaultQuery("period", "day")

	var fieldErrs []view.FieldError
	if code == "" {
		fieldErrs = append(fieldErrs, view.FieldError{Field: "code", Message: "is required"})
	}
	if !validPeriods[period] {
		fieldErrs = append(fieldErrs, view.FieldError{Field: "period", Message: "must be one of 1m, 5m, 15m, 30m, 60m, day, week, month"})
	}

	startMs, ok := query.ParseEpochMilli(c.Query("start"))
	if !ok {
		fieldErrs = append(fieldErrs, view.FieldError{Field: "start", Message: "must be epoch milliseconds"})
	}
	endMs, ok := query.ParseEpochMilli(c.Query("end"))
	if !ok {
		fieldErrs = append(fieldErrs, view.FieldError{Field: "end", Message: "must be epoch milliseconds"})
	}

	limit := defaultBarLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 || v > maxBarLimit {
			fieldErrs = append(fieldErrs, view.FieldError{Field: "limit", Message: "must be between 1 and " + strconv.Itoa(maxBarLimit)})
		} else {
			limit = v
		}
	}

	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse(fieldErrs, requestID))
		return
	}

	var startTime, endTime time.Time
	if startMs > 0 {
		startTime = time.UnixMilli(startMs)
	}
	if endMs > 0 {
		endTime = time.UnixMilli(endMs)
	}

	start := time.Now()
	bars, meta, err := h.provider.GetKline(c.Request.Context(), code, period, startTime, endTime, limit)
	h.recordCall("kline", meta, err, time.Since(start))

	if err != nil {
		h.logger.Error("kline fetch failed", map[string]string{"code": code, "error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, view.CreateResponse[any](nil, err, requestID, "market data is temporarily unavailable"))
		return
	}

	resp := view.CreateMarketResponse(bars, meta.Provider, meta.IsPrimary, len(bars), nil)
	resp.RequestID = requestID
	c.JSON(http.StatusOK, resp)
}

// GetIndices godoc
// @Summary Get market indices
// @Description Get index snapshots, optionally filtered by market and category
// @id getIndices
// @Tags Market
// @Accept json
// @Produce json
// @Param market query string false "market filter"
// @Param category query string false "index category filter"
// @Success 200 {object} view.Response[[]model.IndexQuote]
// @Failure 503 {object} view.Response[any]
// @Router /market/indices [get]
func (h *handler) GetIndices(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	start := time.Now()
	indices, meta, err := h.provider.GetIndices(c.Request.Context(), c.Query("market"), c.Query("category"))
	h.recordCall("indices", meta, err, time.Since(start))

	if err != nil {
		h.logger.Error("indices fetch failed", map[string]string{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, view.CreateResponse[any](nil, err, requestID, "market data is temporarily unavailable"))
		return
	}

	resp := view.CreateMarketResponse(indices, meta.Provider, meta.IsPrimary, len(indices), nil)
	resp.RequestID = requestID
	c.JSON(http.StatusOK, resp)
}

func (h *handler) recordCall(operation string, meta provider.Meta, err error, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	name := meta.Provider
	if name == "" {
		name = h.provider.PrimaryName()
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordProviderCall(name, operation, status, elapsed.Seconds())
}

func parseQuotesParams(c *gin.Context) (codes, fields []string) {
	for _, code := range strings.Split(c.Query("codes"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if raw := c.Query("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}
	return codes, fields
}
