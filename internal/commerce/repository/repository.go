package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories bundles all commerce repositories.
type Repositories struct {
	User            *UserRepository
	Stock           *StockRepository
	PurchaseOrder   *PurchaseOrderRepository
	ApprovalHistory *ApprovalHistoryRepository
	Backorder       *BackorderRepository
	Order           *OrderRepository
}

// NewRepositories creates the repository bundle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Stock:           NewStockRepository(db),
		PurchaseOrder:   NewPurchaseOrderRepository(db),
		ApprovalHistory: NewApprovalHistoryRepository(db),
		Backorder:       NewBackorderRepository(db),
		Order:           NewOrderRepository(db),
	}
}
