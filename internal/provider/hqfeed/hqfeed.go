package hqfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/stockpulse/stockinfo-backend/internal/model"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
	"github.com/stockpulse/stockinfo-backend/internal/utils/config"
	"github.com/stockpulse/stockinfo-backend/internal/utils/logger"
)

// ProviderName identifies the live feed in breaker names and response
// metadata.
const ProviderName = "hqfeed"

const maxRetries = 3

type hqfeed struct {
	baseURL    string
	client     *http.Client
	pacer      *rate.Limiter
	retryDelay time.Duration
	logger     *logger.Logger
}

// New creates the live HQ feed client. Outbound calls are paced with a
// client-side limiter so the platform stays inside the upstream's quota
// regardless of inbound traffic.
func New(cfg *config.AppConfig, logger *logger.Logger) provider.IDataProvider {
	rps := cfg.Provider.HQFeedRatePerSec
	if rps <= 0 {
		rps = 10
	}

	return &hqfeed{
		baseURL: strings.TrimRight(cfg.Provider.HQFeedBaseURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(cfg.Provider.HQFeedTimeoutSecs) * time.Second,
		},
		pacer:      rate.NewLimiter(rate.Limit(rps), rps),
		retryDelay: time.Second,
		logger:     logger,
	}
}

func (c *hqfeed) Name() string {
	return ProviderName
}

func (c *hqfeed) GetQuotes(ctx context.Context, codes []string, market string, fields []string) ([]model.Quote, error) {
	params := url.Values{}
	params.Set("codes", strings.Join(codes, ","))
	if market != "" {
		params.Set("market", market)
	}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var resp quotesResponse
	if err := c.getJSON(ctx, "/v1/quotes", params, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch quotes")
	}

	quotes := make([]model.Quote, 0, len(resp.Data))
	for _, dto := range resp.Data {
		quotes = append(quotes, model.Quote(dto))
	}
	return quotes, nil
}

func (c *hqfeed) GetKline(ctx context.Context, code, period string, start, end time.Time, limit int) ([]model.KlineBar, error) {
	params := url.Values{}
	params.Set("code", code)
	params.Set("period", period)
	if !start.IsZero() {
		params.Set("start", strconv.FormatInt(start.UnixMilli(), 10))
	}
	if !end.IsZero() {
		params.Set("end", strconv.FormatInt(end.UnixMilli(), 10))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp klineResponse
	if err := c.getJSON(ctx, "/v1/kline", params, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch kline for %s", code)
	}

	bars := make([]model.KlineBar, 0, len(resp.Data))
	for _, dto := range resp.Data {
		bars = append(bars, model.KlineBar{
			Code:      resp.Code,
			Period:    resp.Period,
			Open:      dto.Open,
			High:      dto.High,
			Low:       dto.Low,
			Close:     dto.Close,
			Volume:    dto.Volume,
			Timestamp: dto.Timestamp,
		})
	}
	return bars, nil
}

func (c *hqfeed) GetNews(ctx context.Context, filter model.NewsFilter) ([]model.NewsItem, error) {
	params := url.Values{}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Code != "" {
		params.Set("code", filter.Code)
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resp newsResponse
	if err := c.getJSON(ctx, "/v1/news", params, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch news")
	}

	items := make([]model.NewsItem, 0, len(resp.Data))
	for _, dto := range resp.Data {
		items = append(items, model.NewsItem(dto))
	}
	return items, nil
}

func (c *hqfeed) GetIndices(ctx context.Context, market, category string) ([]model.IndexQuote, error) {
	params := url.Values{}
	if market != "" {
		params.Set("market", market)
	}
	if category != "" {
		params.Set("category", category)
	}

	var resp indicesResponse
	if err := c.getJSON(ctx, "/v1/indices", params, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch indices")
	}

	indices := make([]model.IndexQuote, 0, len(resp.Data))
	for _, dto := range resp.Data {
		indices = append(indices, model.IndexQuote(dto))
	}
	return indices, nil
}

// getJSON performs a GET with bounded retries. Transport errors and 5xx
// responses are retried with a linearly growing backoff; 4xx responses are
// returned immediately since repeating the same bad request cannot help.
func (c *hqfeed) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Error("[hqfeed] request failed", map[string]string{
				"path":    path,
				"attempt": strconv.Itoa(attempt),
				"error":   err.Error(),
			})
			if err := c.backoff(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = errors.Wrap(err, "failed to read response")
			if err := c.backoff(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, path)
			c.logger.Error("[hqfeed] unexpected status", map[string]string{
				"path":       path,
				"attempt":    strconv.Itoa(attempt),
				"statusCode": strconv.Itoa(resp.StatusCode),
				"body":       truncate(string(body), 512),
			})
			if err := c.backoff(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("[hqfeed] unexpected status", map[string]string{
				"path":       path,
				"statusCode": strconv.Itoa(resp.StatusCode),
				"body":       truncate(string(body), 512),
			})
			return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, path)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrap(err, "failed to decode response")
		}
		return nil
	}
	return lastErr
}

func (c *hqfeed) backoff(ctx context.Context, attempt int) error {
	if attempt >= maxRetries {
		return nil
	}
	select {
	case <-time.After(time.Duration(attempt) * c.retryDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
