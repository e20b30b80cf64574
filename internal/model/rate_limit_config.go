package model

import "gorm.io/gorm"

// RateLimitConfig is the dynamic rate-limit configuration row. It is fetched
// with a short-TTL cache so limits can change without a redeploy. A missing
// row or Enabled=false means "do not limit".
type RateLimitConfig struct {
	gorm.Model
	Enabled   bool  `json:"enabled" gorm:"column:enabled;default:false"`
	UserLimit int   `json:"user_limit" gorm:"column:user_limit;default:120"`
	IPLimit   int   `json:"ip_limit" gorm:"column:ip_limit;default:300"`
	WindowMs  int64 `json:"window_ms" gorm:"column:window_ms;default:60000"`
}

func (RateLimitConfig) TableName() string {
	return "rate_limit_configs"
}
