package store

import (
	"github.com/stockpulse/stockinfo-backend/internal/store/ratelimitconfig"
	"github.com/stockpulse/stockinfo-backend/internal/store/watchlist"
)

type Store struct {
	Watchlist       watchlist.IStore
	RateLimitConfig ratelimitconfig.IStore
}

func New() *Store {
	return &Store{
		Watchlist:       watchlist.New(),
		RateLimitConfig: ratelimitconfig.New(),
	}
}
