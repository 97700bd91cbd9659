package repository

import (
	"context"
	"errors"
	"time"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"gorm.io/gorm"
)

// PurchaseOrderRepository persists purchase orders and their lines.
// Status and line mutations go through conditional updates so that two
// simultaneous actors cannot both win a transition.
type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *PurchaseOrderRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// POListParams filters the purchase order listing.
type POListParams struct {
	BrandID       string
	DistributorID string
	Status        string
	PaymentStatus string
	Keyword       string
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	Size          int
}

func (r *PurchaseOrderRepository) List(ctx context.Context, params POListParams) ([]entity.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})
	if params.BrandID != "" {
		query = query.Where("brand_id = ?", params.BrandID)
	}
	if params.DistributorID != "" {
		query = query.Where("distributor_id = ?", params.DistributorID)
	}
	if params.Status != "" {
		query = query.Where("po_status = ?", params.Status)
	}
	if params.PaymentStatus != "" {
		query = query.Where("payment_status = ?", params.PaymentStatus)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("po_number LIKE ? OR supplier_name LIKE ?", kw, kw)
	}
	if params.DateFrom != nil {
		query = query.Where("created_at >= ?", params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("created_at <= ?", params.DateTo)
	}

	var total int64
	query.Count(&total)

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var pos []entity.PurchaseOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&pos).Error
	return pos, total, err
}

// UpdateStatusConditional advances po_status only when the current
// status still equals fromStatus. Extra columns (timestamps, approver)
// ride along in updates. Returns rows affected; zero means the status
// moved underneath the caller.
func (r *PurchaseOrderRepository) UpdateStatusConditional(ctx context.Context, poID, fromStatus, toStatus string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["po_status"] = toStatus
	result := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("id = ? AND po_status = ?", poID, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *PurchaseOrderRepository) FindLineByID(ctx context.Context, lineID string) (*entity.PurchaseOrderLine, error) {
	var line entity.PurchaseOrderLine
	err := r.db.WithContext(ctx).Where("id = ?", lineID).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

func (r *PurchaseOrderRepository) FindLinesByPO(ctx context.Context, poID string) ([]entity.PurchaseOrderLine, error) {
	var lines []entity.PurchaseOrderLine
	err := r.db.WithContext(ctx).
		Where("po_id = ?", poID).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

// UpdateLineConditional applies a line decision only while the line is
// still in expectedStatus. The first decision flips the status, so a
// concurrent second decision finds zero rows.
func (r *PurchaseOrderRepository) UpdateLineConditional(ctx context.Context, lineID, expectedStatus string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.PurchaseOrderLine{}).
		Where("id = ? AND line_status = ?", lineID, expectedStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// CacheLineStock stores the stock snapshot taken at submit time.
func (r *PurchaseOrderRepository) CacheLineStock(ctx context.Context, lineID string, available int) error {
	return r.db.WithContext(ctx).Model(&entity.PurchaseOrderLine{}).
		Where("id = ?", lineID).
		Update("available_stock", available).Error
}
