package entity

import "time"

// Backorder statuses. Transitions only move forward:
// pending → partially_fulfilled → fulfilled, or any non-terminal
// state → cancelled.
const (
	BackorderStatusPending            = "pending"
	BackorderStatusPartiallyFulfilled = "partially_fulfilled"
	BackorderStatusFulfilled          = "fulfilled"
	BackorderStatusCancelled          = "cancelled"
)

// Backorder tracks the unfulfilled remainder of a line decision.
type Backorder struct {
	ID                      string     `json:"id" gorm:"primaryKey;size:36"`
	POID                    string     `json:"po_id" gorm:"size:36;not null;index"`
	POLineID                string     `json:"po_line_id" gorm:"size:36;not null;index"`
	BrandID                 string     `json:"brand_id" gorm:"size:36;not null;index"`
	ProductID               *string    `json:"product_id" gorm:"size:36"`
	SKU                     string     `json:"sku" gorm:"size:64;not null"`
	BackorderQty            int        `json:"backorder_qty" gorm:"not null"`
	FulfilledQty            int        `json:"fulfilled_qty" gorm:"not null;default:0"`
	BackorderStatus         string     `json:"backorder_status" gorm:"size:24;not null;default:pending;index"`
	OrderID                 *string    `json:"order_id" gorm:"size:36"` // fulfilling order, once linked
	ExpectedFulfillmentDate *time.Time `json:"expected_fulfillment_date"`
	Notes                   string     `json:"notes" gorm:"type:text"`
	CreatedBy               string     `json:"created_by" gorm:"size:36"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func (Backorder) TableName() string {
	return "backorders"
}

// IsTerminal reports whether a backorder status accepts no further
// tracking.
func (b *Backorder) IsTerminal() bool {
	return b.BackorderStatus == BackorderStatusFulfilled || b.BackorderStatus == BackorderStatusCancelled
}
