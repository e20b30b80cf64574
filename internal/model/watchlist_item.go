package model

import "gorm.io/gorm"

type WatchlistItem struct {
	gorm.Model
	UserID string `json:"user_id" gorm:"column:user_id;type:varchar(64);not null;index;uniqueIndex:idx_watchlist_user_code,priority:1"`
	Code   string `json:"code" gorm:"column:code;type:varchar(32);not null;uniqueIndex:idx_watchlist_user_code,priority:2"`
	Market string `json:"market" gorm:"column:market;type:varchar(16)"`
	Note   string `json:"note" gorm:"column:note;type:varchar(255)"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
