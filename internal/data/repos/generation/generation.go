package generation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type GenerationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.GenerationRecord) ([]*types.GenerationRecord, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.GenerationRecord, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.GenerationRecord, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
}

type generationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRepo {
	repoLog := baseLog.With("repo", "GenerationRepo")
	return &generationRepo{db: db, log: repoLog}
}

func (r *generationRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.GenerationRecord) ([]*types.GenerationRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.GenerationRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *generationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.GenerationRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GenerationRecord
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByUser returns the caller's records, newest first.
func (r *generationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.GenerationRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GenerationRecord
	if userID == "" {
		return results, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *generationRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if userID == "" {
		return 0, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.GenerationRecord{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
