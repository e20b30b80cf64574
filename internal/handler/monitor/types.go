package monitor

import (
	"github.com/stockpulse/stockinfo-backend/internal/breaker"
	"github.com/stockpulse/stockinfo-backend/internal/errmonitor"
	"github.com/stockpulse/stockinfo-backend/internal/provider"
)

// BreakersResponse is the circuit-breaker dashboard payload.
type BreakersResponse struct {
	Primary    string          `json:"primary"`
	LastServed *provider.Meta  `json:"last_served,omitempty"`
	Breakers   []breaker.Stats `json:"breakers"`
}

// ResetRequest resets one breaker by name, or all of them.
type ResetRequest struct {
	BreakerName string `json:"breaker_name"`
	ResetAll    bool   `json:"reset_all"`
}

// ResetResponse reports what a reset touched.
type ResetResponse struct {
	Reset int `json:"reset"`
}

// ErrorsResponse combines windowed stats with matching records.
type ErrorsResponse struct {
	Stats   errmonitor.Stats    `json:"stats"`
	Records []errmonitor.Record `json:"records"`
}

// RateLimitConfigRequest replaces the active rate-limit settings.
type RateLimitConfigRequest struct {
	Enabled   bool  `json:"enabled"`
	UserLimit int   `json:"user_limit" binding:"required,min=1"`
	IPLimit   int   `json:"ip_limit" binding:"required,min=1"`
	WindowMs  int64 `json:"window_ms" binding:"required,min=1000"`
}

// ErrorActionRequest records a new error or resolves an existing one.
type ErrorActionRequest struct {
	Action   string                 `json:"action" binding:"required,oneof=record resolve"`
	ID       string                 `json:"id"`
	Message  string                 `json:"message"`
	Type     string                 `json:"type"`
	Severity string                 `json:"severity"`
	Context  string                 `json:"context"`
	Metadata map[string]interface{} `json:"metadata"`
}
