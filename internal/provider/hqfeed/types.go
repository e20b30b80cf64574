package hqfeed

// Wire DTOs for the HQ feed HTTP API. Field names follow the upstream JSON.

type quoteDTO struct {
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

type klineDTO struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

type newsDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Source      string   `json:"source"`
	Category    string   `json:"category"`
	RelatedCode string   `json:"related_code"`
	Tags        []string `json:"tags"`
	PublishedAt int64    `json:"published_at"`
}

type indexDTO struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Market        string  `json:"market"`
	Category      string  `json:"category"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Timestamp     int64   `json:"timestamp"`
}

type quotesResponse struct {
	Data []quoteDTO `json:"data"`
}

type klineResponse struct {
	Code   string     `json:"code"`
	Period string     `json:"period"`
	Data   []klineDTO `json:"data"`
}

type newsResponse struct {
	Data []newsDTO `json:"data"`
}

type indicesResponse struct {
	Data []indexDTO `json:"data"`
}
