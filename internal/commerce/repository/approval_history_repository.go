package repository

import (
	"context"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"gorm.io/gorm"
)

// ApprovalHistoryRepository is append-only: entries are created and
// listed, never updated or deleted.
type ApprovalHistoryRepository struct {
	db *gorm.DB
}

func NewApprovalHistoryRepository(db *gorm.DB) *ApprovalHistoryRepository {
	return &ApprovalHistoryRepository{db: db}
}

func (r *ApprovalHistoryRepository) Create(ctx context.Context, ent *entity.ApprovalHistoryEntry) error {
	return r.db.WithContext(ctx).Create(ent).Error
}

func (r *ApprovalHistoryRepository) ListByPO(ctx context.Context, poID string) ([]entity.ApprovalHistoryEntry, error) {
	var entries []entity.ApprovalHistoryEntry
	err := r.db.WithContext(ctx).
		Where("po_id = ?", poID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ApprovalHistoryRepository) CountByPO(ctx context.Context, poID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ApprovalHistoryEntry{}).
		Where("po_id = ?", poID).
		Count(&count).Error
	return count, err
}
