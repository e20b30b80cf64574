package mockfeed

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/stockpulse/stockinfo-backend/internal/model"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
)

// ProviderName identifies the offline fallback in response metadata.
const ProviderName = "mock"

// mockfeed generates deterministic market data so the platform keeps serving
// plausible responses when the live feed is unavailable. Values are derived
// from the instrument code and a time bucket, making them stable inside a
// bucket and across process restarts.
type mockfeed struct {
	now func() time.Time
}

func New() provider.IDataProvider {
	return &mockfeed{now: time.Now}
}

func (m *mockfeed) Name() string {
	return ProviderName
}

func (m *mockfeed) GetQuotes(ctx context.Context, codes []string, market string, fields []string) ([]model.Quote, error) {
	ts := m.now()
	quotes := make([]model.Quote, 0, len(codes))
	for _, code := range codes {
		base := basePrice(code)
		drift := priceDrift(code, ts)
		price := round2(base * (1 + drift))
		open := round2(base * (1 + priceDrift(code, ts.Truncate(24*time.Hour))))
		prevClose := round2(base)

		quotes = append(quotes, model.Quote{
			Code:          code,
			Name:          "Mock " + code,
			Market:        market,
			Price:         price,
			Open:          open,
			High:          round2(price * 1.02),
			Low:           round2(price * 0.98),
			PrevClose:     prevClose,
			Change:        round2(price - prevClose),
			ChangePercent: round2((price - prevClose) / prevClose * 100),
			Volume:        int64(seed(code)%9_000_000 + 1_000_000),
			Turnover:      round2(price * float64(seed(code)%9_000_000+1_000_000)),
			Timestamp:     ts.UnixMilli(),
		})
	}
	return quotes, nil
}

func (m *mockfeed) GetKline(ctx context.Context, code, period string, start, end time.Time, limit int) ([]model.KlineBar, error) {
	step := periodStep(period)
	if end.IsZero() {
		end = m.now()
	}
	if limit <= 0 {
		limit = 100
	}

	bars := make([]model.KlineBar, 0, limit)
	cursor := end.Truncate(step)
	base := basePrice(code)

	for len(bars) < limit {
		if !start.IsZero() && cursor.Before(start) {
			break
		}

		drift := priceDrift(code, cursor)
		closePrice := round2(base * (1 + drift))
		openPrice := round2(base * (1 + priceDrift(code, cursor.Add(-step))))

		bars = append(bars, model.KlineBar{
			Code:      code,
			Period:    period,
			Open:      openPrice,
			High:      round2(maxf(openPrice, closePrice) * 1.01),
			Low:       round2(minf(openPrice, closePrice) * 0.99),
			Close:     closePrice,
			Volume:    int64(seedAt(code, cursor)%4_000_000 + 500_000),
			Timestamp: cursor.UnixMilli(),
		})
		cursor = cursor.Add(-step)
	}

	// Oldest first, the order charting clients expect.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func (m *mockfeed) GetNews(ctx context.Context, filter model.NewsFilter) ([]model.NewsItem, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	category := filter.Category
	if category == "" {
		category = "market"
	}

	ts := m.now().Truncate(time.Hour)
	items := make([]model.NewsItem, 0, limit)
	for i := 0; i < limit; i++ {
		publishedAt := ts.Add(-time.Duration(i) * time.Hour)
		item := model.NewsItem{
			ID:          fmt.Sprintf("mock-news-%s-%d", category, publishedAt.Unix()),
			Title:       fmt.Sprintf("Mock %s briefing #%d", category, seedAt(category, publishedAt)%1000),
			Summary:     "Deterministic offline market news item.",
			Source:      "mockfeed",
			Category:    category,
			RelatedCode: filter.Code,
			PublishedAt: publishedAt.UnixMilli(),
		}
		items = append(items, item)
	}
	return items, nil
}

func (m *mockfeed) GetIndices(ctx context.Context, market, category string) ([]model.IndexQuote, error) {
	ts := m.now()
	indices := []struct {
		code, name string
	}{
		{"000001.SH", "SSE Composite"},
		{"399001.SZ", "SZSE Component"},
		{"899050.BJ", "BSE 50"},
	}

	out := make([]model.IndexQuote, 0, len(indices))
	for _, idx := range indices {
		base := basePrice(idx.code) * 30
		drift := priceDrift(idx.code, ts)
		value := round2(base * (1 + drift))
		prev := round2(base)

		out = append(out, model.IndexQuote{
			Code:          idx.code,
			Name:          idx.name,
			Market:        market,
			Category:      category,
			Value:         value,
			Change:        round2(value - prev),
			ChangePercent: round2((value - prev) / prev * 100),
			Timestamp:     ts.UnixMilli(),
		})
	}
	return out, nil
}

func seed(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func seedAt(s string, t time.Time) uint64 {
	return seed(fmt.Sprintf("%s@%d", s, t.Unix()/60))
}

func basePrice(code string) float64 {
	return float64(seed(code)%9_900)/100 + 1 // 1.00 .. 100.00
}

// priceDrift maps code+time bucket onto [-0.05, 0.05).
func priceDrift(code string, t time.Time) float64 {
	return float64(seedAt(code, t)%1000)/10_000 - 0.05
}

func periodStep(period string) time.Duration {
	switch period {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "60m", "1h":
		return time.Hour
	case "week":
		return 7 * 24 * time.Hour
	case "month":
		return 30 * 24 * time.Hour
	default: // "day"
		return 24 * time.Hour
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
