package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/breaker"
	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/model"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
	"github.com/stockpulse/stockinfo-backend/internal/types/environments"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

type stubManager struct{}

func (stubManager) GetQuotes(ctx context.Context, codes []string, market string, fields []string) ([]model.Quote, provider.Meta, error) {
	return nil, provider.Meta{}, nil
}
func (stubManager) GetKline(ctx context.Context, code, period string, start, end time.Time, limit int) ([]model.KlineBar, provider.Meta, error) {
	return nil, provider.Meta{}, nil
}
func (stubManager) GetNews(ctx context.Context, filter model.NewsFilter) ([]model.NewsItem, provider.Meta, error) {
	return nil, provider.Meta{}, nil
}
func (stubManager) GetIndices(ctx context.Context, market, category string) ([]model.IndexQuote, provider.Meta, error) {
	return nil, provider.Meta{}, nil
}
func (stubManager) PrimaryName() string        { return "hqfeed" }
func (stubManager) LastServed() *provider.Meta { return nil }

// fakeConfigStore keeps the single config row in memory.
type fakeConfigStore struct {
	row *model.RateLimitConfig
}

func (f *fakeConfigStore) Get(db *gorm.DB) (*model.RateLimitConfig, error) {
	if f.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.row, nil
}

func (f *fakeConfigStore) Upsert(db *gorm.DB, cfg *model.RateLimitConfig) (*model.RateLimitConfig, error) {
	if cfg.ID == 0 {
		cfg.ID = 1
	}
	f.row = cfg
	return cfg, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *breaker.Manager, *errmonitor.Monitor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	breakers := breaker.NewManager(breaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Minute,
	}, nil)
	monitor := errmonitor.New(100, nil)

	h := New(breakers, monitor, stubManager{}, nil, &fakeConfigStore{}, logger.New(environments.Test))

	r := gin.New()
	r.GET("/monitor/circuit-breakers", h.GetCircuitBreakers)
	r.POST("/monitor/circuit-breakers", h.ResetCircuitBreakers)
	r.GET("/monitor/errors", h.GetErrors)
	r.POST("/monitor/errors", h.PostErrors)
	r.GET("/monitor/rate-limit", h.GetRateLimitConfig)
	r.PUT("/monitor/rate-limit", h.PutRateLimitConfig)
	return r, breakers, monitor
}

func putJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tripBreaker(t *testing.T, breakers *breaker.Manager, name string) {
	t.Helper()
	cb := breakers.Get(name)
	for i := 0; i < 2; i++ {
		err := cb.Execute(context.Background(), func(context.Context) error {
			return errors.New("boom")
		})
		require.Error(t, err)
	}
	require.Equal(t, breaker.StateOpen, cb.State())
}

func TestGetCircuitBreakers(t *testing.T) {
	r, breakers, _ := newTestRouter(t)
	tripBreaker(t, breakers, "hqfeed")

	w := getJSON(r, "/monitor/circuit-breakers")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data BreakersResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hqfeed", resp.Data.Primary)
	require.Len(t, resp.Data.Breakers, 1)
	assert.Equal(t, breaker.StateOpen, resp.Data.Breakers[0].State)
	assert.Equal(t, int64(2), resp.Data.Breakers[0].FailedRequests)
}

func TestResetNamedBreaker(t *testing.T) {
	r, breakers, _ := newTestRouter(t)
	tripBreaker(t, breakers, "hqfeed")

	w := postJSON(r, "/monitor/circuit-breakers", ResetRequest{BreakerName: "hqfeed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, breaker.StateClosed, breakers.Get("hqfeed").State())
}

func TestResetAllBreakers(t *testing.T) {
	r, breakers, _ := newTestRouter(t)
	tripBreaker(t, breakers, "hqfeed")
	breakers.Get("other")

	w := postJSON(r, "/monitor/circuit-breakers", ResetRequest{ResetAll: true})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ResetResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Reset)
}

func TestResetUnknownBreaker(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := postJSON(r, "/monitor/circuit-breakers", ResetRequest{BreakerName: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetRequiresNameOrAll(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := postJSON(r, "/monitor/circuit-breakers", ResetRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetErrorsStatsAndRecords(t *testing.T) {
	r, _, monitor := newTestRouter(t)
	monitor.Record("timeout", errmonitor.TypeNetwork, errmonitor.SeverityHigh, "test", nil)
	monitor.Record("bad input", errmonitor.TypeValidation, errmonitor.SeverityLow, "test", nil)

	w := getJSON(r, "/monitor/errors?hours=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ErrorsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Stats.Total)
	assert.Len(t, resp.Data.Records, 2)

	w = getJSON(r, "/monitor/errors?type=NETWORK_ERROR")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Records, 1)
	assert.Equal(t, "timeout", resp.Data.Records[0].Message)
}

func TestGetErrorsRejectsBadParams(t *testing.T) {
	r, _, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, getJSON(r, "/monitor/errors?hours=-1").Code)
	assert.Equal(t, http.StatusBadRequest, getJSON(r, "/monitor/errors?type=NOT_A_TYPE").Code)
	assert.Equal(t, http.StatusBadRequest, getJSON(r, "/monitor/errors?limit=zero").Code)
}

func TestPostErrorsRecordAndResolve(t *testing.T) {
	r, _, monitor := newTestRouter(t)

	w := postJSON(r, "/monitor/errors", ErrorActionRequest{
		Action:   "record",
		Message:  "disk almost full",
		Type:     string(errmonitor.TypeSystem),
		Severity: string(errmonitor.SeverityMedium),
		Context:  "ops",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, 1, monitor.Count())

	w = postJSON(r, "/monitor/errors", ErrorActionRequest{Action: "resolve", ID: resp.Data.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, monitor.Unresolved(10))
}

func TestRateLimitConfigRoundTrip(t *testing.T) {
	r, _, _ := newTestRouter(t)

	// Nothing configured yet.
	w := getJSON(r, "/monitor/rate-limit")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")

	w = putJSON(r, "/monitor/rate-limit", RateLimitConfigRequest{
		Enabled: true, UserLimit: 120, IPLimit: 300, WindowMs: 60000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = getJSON(r, "/monitor/rate-limit")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.RateLimitConfig `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Enabled)
	assert.Equal(t, 120, resp.Data.UserLimit)
	assert.Equal(t, int64(60000), resp.Data.WindowMs)
}

func TestPutRateLimitConfigValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := putJSON(r, "/monitor/rate-limit", map[string]interface{}{
		"enabled": true, "user_limit": 0, "ip_limit": 300, "window_ms": 60000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostErrorsValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)

	// Unknown action fails request binding.
	w := postJSON(r, "/monitor/errors", map[string]string{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Record without a message.
	w = postJSON(r, "/monitor/errors", ErrorActionRequest{
		Action: "record", Type: string(errmonitor.TypeSystem), Severity: string(errmonitor.SeverityLow),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Resolve with an unknown id.
	w = postJSON(r, "/monitor/errors", ErrorActionRequest{Action: "resolve", ID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
