package repository

import (
	"context"
	"errors"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"gorm.io/gorm"
)

// BackorderRepository persists backorder records. Status moves use
// conditional updates keyed on the prior status.
type BackorderRepository struct {
	db *gorm.DB
}

func NewBackorderRepository(db *gorm.DB) *BackorderRepository {
	return &BackorderRepository{db: db}
}

func (r *BackorderRepository) Create(ctx context.Context, backorder *entity.Backorder) error {
	return r.db.WithContext(ctx).Create(backorder).Error
}

func (r *BackorderRepository) FindByID(ctx context.Context, id string) (*entity.Backorder, error) {
	var backorder entity.Backorder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&backorder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &backorder, nil
}

// UpdateConditional writes updates only while the backorder is still in
// expectedStatus. Returns rows affected.
func (r *BackorderRepository) UpdateConditional(ctx context.Context, id, expectedStatus string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Backorder{}).
		Where("id = ? AND backorder_status = ?", id, expectedStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *BackorderRepository) ListPending(ctx context.Context, brandID string) ([]entity.Backorder, error) {
	var backorders []entity.Backorder
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND backorder_status IN ?", brandID,
			[]string{entity.BackorderStatusPending, entity.BackorderStatusPartiallyFulfilled}).
		Order("created_at ASC").
		Find(&backorders).Error
	return backorders, err
}

func (r *BackorderRepository) ListByPO(ctx context.Context, poID string) ([]entity.Backorder, error) {
	var backorders []entity.Backorder
	err := r.db.WithContext(ctx).
		Where("po_id = ?", poID).
		Order("created_at ASC").
		Find(&backorders).Error
	return backorders, err
}
