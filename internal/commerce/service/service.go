package service

import (
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"go.uber.org/zap"
)

// Services bundles the commerce service layer for handler wiring.
type Services struct {
	PurchaseOrder *PurchaseOrderService
	Workflow      *WorkflowService
	Stock         *StockService
	Backorder     *BackorderService
	Order         *OrderService
	Permission    *PermissionService
	Generator     *OrderGenerator
	Notifier      Notifier
}

func NewServices(repos *repository.Repositories, notifier Notifier, logger *zap.Logger) *Services {
	stockSvc := NewStockService(repos.Stock, repos.PurchaseOrder)
	permissionSvc := NewPermissionService(repos.User)
	backorderSvc := NewBackorderService(repos.Backorder)
	allocator := NewAllocationService(repos.Order, repos.Stock, logger)
	generator := NewOrderGenerator(repos.PurchaseOrder, repos.Order, allocator, logger)
	workflowSvc := NewWorkflowService(
		repos.PurchaseOrder,
		repos.ApprovalHistory,
		stockSvc,
		permissionSvc,
		backorderSvc,
		generator,
		logger,
	)

	return &Services{
		PurchaseOrder: NewPurchaseOrderService(repos.PurchaseOrder, repos.Stock, repos.ApprovalHistory),
		Workflow:      workflowSvc,
		Stock:         stockSvc,
		Backorder:     backorderSvc,
		Order:         NewOrderService(repos.Order),
		Permission:    permissionSvc,
		Generator:     generator,
		Notifier:      notifier,
	}
}
