package watchlist

import (
	"gorm.io/gorm"

	"github.com/stockpulse/stockinfo-backend/internal/model"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Create(db *gorm.DB, item *model.WatchlistItem) (*model.WatchlistItem, error) {
	return item, db.Create(item).Error
}

func (s *Store) GetByUser(db *gorm.DB, userID string) ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetByID(db *gorm.DB, id uint) (*model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := db.Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) Delete(db *gorm.DB, userID string, id uint) error {
	tx := db.Where("user_id = ? AND id = ?", userID, id).Delete(&model.WatchlistItem{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
