package runs

import (
	"context"
	"time"

	"gorm.io/gorm"

	types "github.com/beancode/signalist-backend/internal/domain"
	"github.com/beancode/signalist-backend/internal/platform/logger"
)

type DigestRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.DigestRun) (*types.DigestRun, error)
	ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.DigestRun, error)
}

type digestRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDigestRunRepo(db *gorm.DB, baseLog *logger.Logger) DigestRunRepo {
	return &digestRunRepo{db: db, log: baseLog.With("repo", "DigestRunRepo")}
}

func (rr *digestRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.DigestRun) (*types.DigestRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (rr *digestRunRepo) ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.DigestRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.DigestRun
	if err := transaction.WithContext(ctx).
		Where("started_at >= ?", since).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
