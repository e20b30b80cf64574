package ratelimitconfig

import (
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/model"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

// Get returns the newest config row. gorm.ErrRecordNotFound when the table
// is empty, which callers treat as "limiting disabled".
func (s *Store) Get(db *gorm.DB) (*model.RateLimitConfig, error) {
	var cfg model.RateLimitConfig
	err := db.Order("id DESC").First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) Upsert(db *gorm.DB, cfg *model.RateLimitConfig) (*model.RateLimitConfig, error) {
	if cfg.ID == 0 {
		return cfg, db.Create(cfg).Error
	}
	return cfg, db.Save(cfg).Error
}
