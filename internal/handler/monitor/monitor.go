package monitor

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/breaker"
	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/model"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
	"github.com/stockpulse/stockinfo-backend/internal/store/ratelimitconfig"
	"github.com/stockpulse/stockinfo-backend/internal/transport/middleware"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
	"github.com/stockpulse/stockinfo-backend/internal/view"
)

const defaultStatsWindow = 24 * time.Hour

var validTypes = map[errmonitor.ErrorType]bool{
	errmonitor.TypeRateLimit:  true,
	errmonitor.TypeAPI:        true,
	errmonitor.TypeSystem:     true,
	errmonitor.TypeValidation: true,
	errmonitor.TypeNetwork:    true,
	errmonitor.TypeCircuit:    true,
	errmonitor.TypeUnknown:    true,
}

var validSeverities = map[errmonitor.Severity]bool{
	errmonitor.SeverityLow:      true,
	errmonitor.SeverityMedium:   true,
	errmonitor.SeverityHigh:     true,
	errmonitor.SeverityCritical: true,
}

type handler struct {
	breakers    *breaker.Manager
	monitor     *errmonitor.Monitor
	provider    provider.IManager
	db          *gorm.DB
	configStore ratelimitconfig.IStore
	logger      *logger.Logger
}

func New(breakers *breaker.Manager, monitor *errmonitor.Monitor, p provider.IManager, db *gorm.DB, configStore ratelimitconfig.IStore, logger *logger.Logger) IHandler {
	return &handler{
		breakers:    breakers,
		monitor:     monitor,
		provider:    p,
		db:          db,
		configStore: configStore,
		logger:      logger,
	}
}

// GetCircuitBreakers godoc
// @Summary Get circuit breaker states
// @Description Get a snapshot of every circuit breaker plus which provider served last
// @id getCircuitBreakers
// @Tags Monitor
// @Accept json
// @Produce json
// @Success 200 {object} view.Response[BreakersResponse]
// @Router /monitor/circuit-breakers [get]
func (h *handler) GetCircuitBreakers(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	resp := BreakersResponse{
		Primary:    h.provider.PrimaryName(),
		LastServed: h.provider.LastServed(),
		Breakers:   h.breakers.AllStats(),
	}
	c.JSON(http.StatusOK, view.CreateResponse(resp, nil, requestID, ""))
}

// ResetCircuitBreakers godoc
// @Summary Reset circuit breakers
// @Description Force one breaker (or all) back to closed; requires an operator token
// @id resetCircuitBreakers
// @Tags Monitor
// @Accept json
// @Produce json
// @Param body body ResetRequest true "breaker_name or reset_all"
// @Success 200 {object} view.Response[ResetResponse]
// @Failure 400 {object} view.ValidationErrorResponse
// @Failure 401 {object} view.Response[any]
// @Failure 404 {object} view.Response[any]
// @Router /monitor/circuit-breakers [post]
// @Security BearerAuth
func (h *handler) ResetCircuitBreakers(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
			{Field: "body", Message: err.Error()},
		}, requestID))
		return
	}

	if !req.ResetAll && req.BreakerName == "" {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
			{Field: "breaker_name", Message: "required unless reset_all is true"},
		}, requestID))
		return
	}

	var count int
	if req.ResetAll {
		count = h.breakers.ResetAll()
	} else {
		if !h.breakers.Reset(req.BreakerName) {
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, errors.New("unknown breaker: "+req.BreakerName), requestID, ""))
			return
		}
		count = 1
	}

	h.logger.Info("circuit breakers reset by operator", map[string]string{
		"subject":  middleware.GetSubject(c),
		"breaker":  req.BreakerName,
		"resetAll": strconv.FormatBool(req.ResetAll),
	})
	c.JSON(http.StatusOK, view.CreateResponse(ResetResponse{Reset: count}, nil, requestID, ""))
}

// GetErrors godoc
// @Summary Get recorded errors
// @Description Get windowed error statistics and matching records
// @id getErrors
// @Tags Monitor
// @Accept json
// @Produce json
// @Param hours query int false "stats window in hours, default 24"
// @Param type query string false "filter records by error type"
// @Param unresolved query bool false "only unresolved records"
// @Param limit query int false "max records, default 50"
// @Success 200 {object} view.Response[ErrorsResponse]
// @Failure 400 {object} view.ValidationErrorResponse
// @Router /monitor/errors [get]
func (h *handler) GetErrors(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	window := defaultStatsWindow
	if hoursStr := c.Query("hours"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours < 1 {
			c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
				{Field: "hours", Message: "must be a positive integer"},
			}, requestID))
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
				{Field: "limit", Message: "must be a positive integer"},
			}, requestID))
			return
		}
		limit = v
	}

	var records []errmonitor.Record
	switch {
	case c.Query("type") != "":
		t := errmonitor.ErrorType(c.Query("type"))
		if !validTypes[t] {
			c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
				{Field: "type", Message: "unknown error type"},
			}, requestID))
			return
		}
		records = h.monitor.ByType(t, limit)
	case c.Query("unresolved") == "true":
		records = h.monitor.Unresolved(limit)
	default:
		records = h.monitor.Recent(limit)
	}

	resp := ErrorsResponse{
		Stats:   h.monitor.Stats(window),
		Records: records,
	}
	c.JSON(http.StatusOK, view.CreateResponse(resp, nil, requestID, ""))
}

// PostErrors godoc
// @Summary Record or resolve an error
// @Description Record an error from an external component, or mark one resolved; requires an operator token
// @id postErrors
// @Tags Monitor
// @Accept json
// @Produce json
// @Param body body ErrorActionRequest true "action payload"
// @Success 200 {object} view.Response[any]
// @Failure 400 {object} view.ValidationErrorResponse
// @Failure 401 {object} view.Response[any]
// @Failure 404 {object} view.Response[any]
// @Router /monitor/errors [post]
// @Security BearerAuth
func (h *handler) PostErrors(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req ErrorActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
			{Field: "body", Message: err.Error()},
		}, requestID))
		return
	}

	switch req.Action {
	case "record":
		fieldErrs := validateRecord(&req)
		if len(fieldErrs) > 0 {
			c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse(fieldErrs, requestID))
			return
		}
		id := h.monitor.Record(req.Message, errmonitor.ErrorType(req.Type), errmonitor.Severity(req.Severity), req.Context, req.Metadata)
		c.JSON(http.StatusOK, view.CreateResponse[any](gin.H{"id": id}, nil, requestID, ""))

	case "resolve":
		if req.ID == "" {
			c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
				{Field: "id", Message: "is required for resolve"},
			}, requestID))
			return
		}
		if !h.monitor.Resolve(req.ID) {
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, errors.New("unknown error id"), requestID, ""))
			return
		}
		c.JSON(http.StatusOK, view.CreateResponse[any](gin.H{"resolved": req.ID}, nil, requestID, ""))
	}
}

// GetRateLimitConfig godoc
// @Summary Get rate-limit config
// @Description Get the active rate-limit settings
// @id getRateLimitConfig
// @Tags Monitor
// @Accept json
// @Produce json
// @Success 200 {object} view.Response[model.RateLimitConfig]
// @Router /monitor/rate-limit [get]
func (h *handler) GetRateLimitConfig(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	cfg, err := h.configStore.Get(h.db)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, view.CreateResponse[*model.RateLimitConfig](nil, nil, requestID, "rate limiting is not configured"))
			return
		}
		h.logger.Error("failed to load rate limit config", map[string]string{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, requestID, "can't load rate limit config"))
		return
	}
	c.JSON(http.StatusOK, view.CreateResponse(cfg, nil, requestID, ""))
}

// PutRateLimitConfig godoc
// @Summary Update rate-limit config
// @Description Replace the active rate-limit settings; picked up within the config cache TTL. Requires an operator token
// @id putRateLimitConfig
// @Tags Monitor
// @Accept json
// @Produce json
// @Param body body RateLimitConfigRequest true "new settings"
// @Success 200 {object} view.Response[model.RateLimitConfig]
// @Failure 400 {object} view.ValidationErrorResponse
// @Failure 401 {object} view.Response[any]
// @Router /monitor/rate-limit [put]
// @Security BearerAuth
func (h *handler) PutRateLimitConfig(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	var req RateLimitConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateValidationErrorResponse([]view.FieldError{
			{Field: "body", Message: err.Error()},
		}, requestID))
		return
	}

	row := &model.RateLimitConfig{
		Enabled:   req.Enabled,
		UserLimit: req.UserLimit,
		IPLimit:   req.IPLimit,
		WindowMs:  req.WindowMs,
	}
	if existing, err := h.configStore.Get(h.db); err == nil {
		row.ID = existing.ID
	}

	saved, err := h.configStore.Upsert(h.db, row)
	if err != nil {
		h.logger.Error("failed to save rate limit config", map[string]string{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, requestID, "can't save rate limit config"))
		return
	}

	h.logger.Info("rate limit config updated by operator", map[string]string{
		"subject":    middleware.GetSubject(c),
		"enabled":    strconv.FormatBool(saved.Enabled),
		"user_limit": strconv.Itoa(saved.UserLimit),
		"ip_limit":   strconv.Itoa(saved.IPLimit),
	})
	c.JSON(http.StatusOK, view.CreateResponse(saved, nil, requestID, ""))
}

func validateRecord(req *ErrorActionRequest) []view.FieldError {
	var fields []view.FieldError
	if req.Message == "" {
		fields = append(fields, view.FieldError{Field: "message", Message: "is required for record"})
	}
	if !validTypes[errmonitor.ErrorType(req.Type)] {
		fields = append(fields, view.FieldError{Field: "type", Message: "unknown error type"})
	}
	if !validSeverities[errmonitor.Severity(req.Severity)] {
		fields = append(fields, view.FieldError{Field: "severity", Message: "must be low, medium, high or critical"})
	}
	return fields
}
