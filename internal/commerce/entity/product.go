package entity

import "time"

// Product statuses
const (
	ProductStatusActive       = "active"
	ProductStatusDiscontinued = "discontinued"
)

// Product carries the per-brand stock row the workflow reads and deducts.
// ReservedQty is stock allocated to submitted orders but not yet deducted
// from QuantityInStock.
type Product struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	SKU             string     `json:"sku" gorm:"size:64;not null;index:idx_products_sku_brand,unique"`
	BrandID         string     `json:"brand_id" gorm:"size:36;not null;index:idx_products_sku_brand,unique"`
	Name            string     `json:"name" gorm:"size:200;not null"`
	UnitPrice       float64    `json:"unit_price" gorm:"type:decimal(12,2);not null;default:0"`
	QuantityInStock int        `json:"quantity_in_stock" gorm:"not null;default:0"`
	ReservedQty     int        `json:"reserved_qty" gorm:"not null;default:0"`
	ReorderLevel    *int       `json:"reorder_level"`
	Status          string     `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at" gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}
