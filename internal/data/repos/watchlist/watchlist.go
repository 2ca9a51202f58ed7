package watchlist

import (
	"context"

	"gorm.io/gorm"

	types "github.com/beancode/signalist-backend/internal/domain"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

type WatchlistRepo interface {
	Add(ctx context.Context, tx *gorm.DB, items []*types.WatchlistItem) ([]*types.WatchlistItem, error)

	// SymbolsByEmail returns the distinct symbols tracked by the user with
	// the given email. A user without a watchlist yields an empty slice.
	SymbolsByEmail(ctx context.Context, tx *gorm.DB, email string) ([]string, error)
}

type watchlistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWatchlistRepo(db *gorm.DB, baseLog *logger.Logger) WatchlistRepo {
	return &watchlistRepo{db: db, log: baseLog.With("repo", "WatchlistRepo")}
}

func (wr *watchlistRepo) Add(ctx context.Context, tx *gorm.DB, items []*types.WatchlistItem) ([]*types.WatchlistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	if len(items) == 0 {
		return []*types.WatchlistItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (wr *watchlistRepo) SymbolsByEmail(ctx context.Context, tx *gorm.DB, email string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var symbols []string
	if err := transaction.WithContext(ctx).
		Model(&types.WatchlistItem{}).
		Distinct("watchlist_items.symbol").
		Joins("JOIN users ON users.id = watchlist_items.user_id").
		Where("users.email = ?", email).
		Pluck("watchlist_items.symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
