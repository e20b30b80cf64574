package ratelimitconfig

import (
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/model"
)

type IStore interface {
	Get(db *gorm.DB) (*model.RateLimitConfig, error)
	Upsert(db *gorm.DB, cfg *model.RateLimitConfig) (*model.RateLimitConfig, error)
}
