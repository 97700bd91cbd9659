package entity

import "time"

// Order statuses. Generated orders start in "submitted" (not "pending")
// so downstream allocation picks them up immediately.
const (
	OrderStatusSubmitted = "submitted"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is generated downstream from approved purchase order lines.
type Order struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	OrderNumber     string     `json:"order_number" gorm:"size:50;not null;uniqueIndex"`
	PurchaseOrderID string     `json:"purchase_order_id" gorm:"size:36;not null;index"`
	BrandID         string     `json:"brand_id" gorm:"size:36;not null;index"`
	DistributorID   *string    `json:"distributor_id" gorm:"size:36;index"`
	OrderStatus     string     `json:"order_status" gorm:"size:20;not null;default:submitted;index"`
	PaymentStatus   string     `json:"payment_status" gorm:"size:20;not null;default:pending"`
	Subtotal        float64    `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount     float64    `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Currency        string     `json:"currency" gorm:"size:10;not null;default:USD"`
	Notes           string     `json:"notes" gorm:"type:text"`
	CreatedBy       string     `json:"created_by" gorm:"size:36;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at" gorm:"index"`

	Lines []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine is a denormalized item on a generated order, keeping a
// back-reference to the purchase order line it came from.
type OrderLine struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID     string    `json:"order_id" gorm:"size:36;not null;index"`
	POLineID    string    `json:"po_line_id" gorm:"size:36;not null;index"`
	SKU         string    `json:"sku" gorm:"size:64;not null"`
	ProductID   *string   `json:"product_id" gorm:"size:36"`
	ProductName string    `json:"product_name" gorm:"size:200"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
