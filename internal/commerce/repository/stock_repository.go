package repository

import (
	"context"
	"errors"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"gorm.io/gorm"
)

// StockRepository provides row-level reads and conditional writes on
// product stock quantities.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *StockRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *StockRepository) FindBySKU(ctx context.Context, sku, brandID string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("sku = ? AND brand_id = ? AND deleted_at IS NULL", sku, brandID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *StockRepository) FindManyBySKU(ctx context.Context, skus []string, brandID string) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("sku IN ? AND brand_id = ? AND deleted_at IS NULL", skus, brandID).
		Find(&products).Error
	return products, err
}

// DeductConditional subtracts qty from quantity_in_stock only if the
// current value still equals expectedStock. Returns the number of rows
// updated; zero means another writer got there first.
func (r *StockRepository) DeductConditional(ctx context.Context, productID string, qty, expectedStock int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND quantity_in_stock = ?", productID, expectedStock).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", qty))
	return result.RowsAffected, result.Error
}

// Reserve bumps reserved_qty without touching on-hand stock. The guard
// keeps reservations within unreserved stock.
func (r *StockRepository) Reserve(ctx context.Context, productID string, qty int) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND quantity_in_stock - reserved_qty >= ?", productID, qty).
		Update("reserved_qty", gorm.Expr("reserved_qty + ?", qty))
	return result.RowsAffected, result.Error
}
