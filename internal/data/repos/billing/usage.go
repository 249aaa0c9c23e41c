package billing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type UsageRepo interface {
	Increment(ctx context.Context, tx *gorm.DB, userID, feature, period string, delta int64) error
	Get(ctx context.Context, tx *gorm.DB, userID, feature, period string) (int64, error)
	ListForPeriod(ctx context.Context, tx *gorm.DB, userID, period string) ([]*types.UsageCounter, error)
}

type usageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageRepo(db *gorm.DB, baseLog *logger.Logger) UsageRepo {
	repoLog := baseLog.With("repo", "UsageRepo")
	return &usageRepo{db: db, log: repoLog}
}

// Increment upserts the (user, feature, period) row and adds delta.
func (r *usageRepo) Increment(ctx context.Context, tx *gorm.DB, userID, feature, period string, delta int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == "" || feature == "" || period == "" || delta == 0 {
		return nil
	}

	now := time.Now().UTC()
	row := &types.UsageCounter{
		UserID:    userID,
		Feature:   feature,
		Period:    period,
		Count:     delta,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "feature"}, {Name: "period"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count":      gorm.Expr("usage_counter.count + ?", delta),
				"updated_at": now,
			}),
		}).
		Create(row).Error
}

func (r *usageRepo) Get(ctx context.Context, tx *gorm.DB, userID, feature, period string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.UsageCounter
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND feature = ? AND period = ?", userID, feature, period).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Count, nil
}

func (r *usageRepo) ListForPeriod(ctx context.Context, tx *gorm.DB, userID, period string) ([]*types.UsageCounter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UsageCounter
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND period = ?", userID, period).
		Order("feature ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
