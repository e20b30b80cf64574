package model

// Quote is a realtime snapshot for a single instrument.
type Quote struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Market        string  `json:"market"`
	Price         float64 `json:"price"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PrevClose     float64 `json:"prev_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	Turnover      float64 `json:"turnover"`
	Timestamp     int64   `json:"timestamp"`
}

// KlineBar is one OHLCV bar of a kline series.
type KlineBar struct {
	Code      string  `json:"code"`
	Period    string  `json:"period"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// NewsItem is a single market news article.
type NewsItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Source      string   `json:"source"`
	Category    string   `json:"category"`
	RelatedCode string   `json:"related_code,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PublishedAt int64    `json:"published_at"`
}

// IndexQuote is a market index snapshot.
type IndexQuote struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Market        string  `json:"market"`
	Category      string  `json:"category"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Timestamp     int64   `json:"timestamp"`
}

// NewsFilter narrows a news fetch. Zero values mean "no constraint".
type NewsFilter struct {
	Category string
	Code     string
	Limit    int
}
