package repository

import (
	"context"
	"errors"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"gorm.io/gorm"
)

// OrderRepository persists generated orders and their lines.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order together with its lines in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByPO(ctx context.Context, poID string) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("purchase_order_id = ? AND deleted_at IS NULL", poID).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// OrderListParams filters the order listing.
type OrderListParams struct {
	BrandID       string
	DistributorID string
	Status        string
	Page          int
	Size          int
}

func (r *OrderRepository) List(ctx context.Context, params OrderListParams) ([]entity.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{}).Where("deleted_at IS NULL")
	if params.BrandID != "" {
		query = query.Where("brand_id = ?", params.BrandID)
	}
	if params.DistributorID != "" {
		query = query.Where("distributor_id = ?", params.DistributorID)
	}
	if params.Status != "" {
		query = query.Where("order_status = ?", params.Status)
	}

	var total int64
	query.Count(&total)

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.Order
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}

// StatusCounts returns order counts grouped by order_status for the
// stats summary endpoint.
func (r *OrderRepository) StatusCounts(ctx context.Context, brandID string) (map[string]int64, error) {
	type row struct {
		OrderStatus string
		Count       int64
	}
	var rows []row
	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Select("order_status, COUNT(*) as count").
		Where("deleted_at IS NULL")
	if brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}
	if err := query.Group("order_status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.OrderStatus] = r.Count
	}
	return counts, nil
}

// TotalRevenue sums total_amount over non-cancelled orders.
func (r *OrderRepository) TotalRevenue(ctx context.Context, brandID string) (float64, error) {
	var result struct{ Total float64 }
	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("deleted_at IS NULL AND order_status != ?", entity.OrderStatusCancelled)
	if brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}
	err := query.Scan(&result).Error
	return result.Total, err
}
