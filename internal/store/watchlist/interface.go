package watchlist

import (
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/model"
)

type IStore interface {
	Create(db *gorm.DB, item *model.WatchlistItem) (*model.WatchlistItem, error)
	GetByUser(db *gorm.DB, userID string) ([]model.WatchlistItem, error)
	GetByID(db *gorm.DB, id uint) (*model.WatchlistItem, error)
	Delete(db *gorm.DB, userID string, id uint) error
}
