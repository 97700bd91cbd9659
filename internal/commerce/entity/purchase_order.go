package entity

import "time"

// Purchase order statuses
const (
	POStatusDraft     = "draft"
	POStatusSubmitted = "submitted"
	POStatusApproved  = "approved"
	POStatusRejected  = "rejected"
	POStatusOrdered   = "ordered"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// Workflow actions. Each action maps to exactly one target status.
const (
	POActionSubmit  = "submit"
	POActionApprove = "approve"
	POActionReject  = "reject"
	POActionOrder   = "order"
	POActionReceive = "receive"
	POActionCancel  = "cancel"
)

// Payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// PurchaseOrder is the state machine subject. Status is only mutated
// through WorkflowService; cancellation is a terminal status, never a
// row delete.
type PurchaseOrder struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	PONumber        string     `json:"po_number" gorm:"size:50;not null;uniqueIndex"`
	BrandID         string     `json:"brand_id" gorm:"size:36;not null;index"`
	DistributorID   *string    `json:"distributor_id" gorm:"size:36;index"`
	SupplierName    string     `json:"supplier_name" gorm:"size:200"`
	SupplierEmail   string     `json:"supplier_email" gorm:"size:200"`
	POStatus        string     `json:"po_status" gorm:"size:20;not null;default:draft;index"`
	PaymentStatus   string     `json:"payment_status" gorm:"size:20;not null;default:pending"`
	Subtotal        float64    `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount     float64    `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Currency        string     `json:"currency" gorm:"size:10;not null;default:USD"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	ApprovedAt      *time.Time `json:"approved_at"`
	ApprovedBy      string     `json:"approved_by" gorm:"size:36"`
	RejectionReason string     `json:"rejection_reason" gorm:"type:text"`
	Notes           string     `json:"notes" gorm:"type:text"`
	Tags            StringArray `json:"tags" gorm:"type:jsonb"`
	CreatedBy       string     `json:"created_by" gorm:"size:36;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Lines []PurchaseOrderLine `json:"lines,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Line statuses
const (
	LineStatusPending           = "pending"
	LineStatusApproved          = "approved"
	LineStatusPartiallyApproved = "partially_approved"
	LineStatusBackordered       = "backordered"
	LineStatusRejected          = "rejected"
)

// PurchaseOrderLine holds a single SKU decision. After any decision,
// ApprovedQty + BackorderQty + RejectedQty == RequestedQty.
type PurchaseOrderLine struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	POID            string     `json:"po_id" gorm:"size:36;not null;index"`
	SKU             string     `json:"sku" gorm:"size:64;not null"`
	ProductID       *string    `json:"product_id" gorm:"size:36"`
	ProductName     string     `json:"product_name" gorm:"size:200"`
	RequestedQty    int        `json:"requested_qty" gorm:"not null"`
	ApprovedQty     int        `json:"approved_qty" gorm:"not null;default:0"`
	BackorderQty    int        `json:"backorder_qty" gorm:"not null;default:0"`
	RejectedQty     int        `json:"rejected_qty" gorm:"not null;default:0"`
	UnitPrice       float64    `json:"unit_price" gorm:"type:decimal(12,2);not null;default:0"`
	AvailableStock  *int       `json:"available_stock"` // snapshot cached at submit time
	LineStatus      string     `json:"line_status" gorm:"size:24;not null;default:pending"`
	OverrideApplied bool       `json:"override_applied" gorm:"not null;default:false"`
	OverrideBy      string     `json:"override_by" gorm:"size:36"`
	OverrideReason  string     `json:"override_reason" gorm:"type:text"`
	OverrideAt      *time.Time `json:"override_at"`
	Notes           string     `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// DeriveLineStatus recomputes a line status from its quantities. It is a
// pure function of the split vs the requested quantity.
func DeriveLineStatus(requested, approved, backorder, rejected int) string {
	switch {
	case rejected == requested:
		return LineStatusRejected
	case backorder == requested:
		return LineStatusBackordered
	case approved == requested:
		return LineStatusApproved
	default:
		return LineStatusPartiallyApproved
	}
}
