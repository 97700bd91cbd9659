package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LowStockAlert is a low-stock signal reported by allocation.
type LowStockAlert struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
}

// Allocator reserves stock for a newly created order and reports any
// low-stock conditions. Allocation failures do not undo the order.
type Allocator interface {
	Allocate(ctx context.Context, orderID string) ([]LowStockAlert, error)
}

// GroupKeyFunc buckets approved PO lines into orders. The default
// produces a single group; future policies can split by distributor or
// delivery date without touching the generator.
type GroupKeyFunc func(line entity.PurchaseOrderLine) string

// SingleGroup is the current grouping policy: one order per PO.
func SingleGroup(entity.PurchaseOrderLine) string { return "" }

// GenerateResult is the outcome of order generation for one PO.
type GenerateResult struct {
	OrderIDs       []string        `json:"order_ids"`
	LowStockAlerts []LowStockAlert `json:"low_stock_alerts,omitempty"`
}

// OrderGenerator converts approved purchase order lines into downstream
// orders and triggers stock allocation.
type OrderGenerator struct {
	poRepo    *repository.PurchaseOrderRepository
	orderRepo *repository.OrderRepository
	allocator Allocator
	groupKey  GroupKeyFunc
	logger    *zap.Logger
}

func NewOrderGenerator(poRepo *repository.PurchaseOrderRepository, orderRepo *repository.OrderRepository, allocator Allocator, logger *zap.Logger) *OrderGenerator {
	return &OrderGenerator{
		poRepo:    poRepo,
		orderRepo: orderRepo,
		allocator: allocator,
		groupKey:  SingleGroup,
		logger:    logger,
	}
}

// SetGroupKey swaps the grouping policy.
func (g *OrderGenerator) SetGroupKey(fn GroupKeyFunc) {
	if fn != nil {
		g.groupKey = fn
	}
}

// GenerateFromPO creates one order per line group from the approved and
// partially approved lines of a PO, allocates stock for each created
// order, and advances the PO to ordered. If one group fails the
// remaining groups are still attempted; the call fails only when zero
// orders were created, in which case the PO status is left untouched.
func (g *OrderGenerator) GenerateFromPO(ctx context.Context, poID, actorID string) (*GenerateResult, error) {
	po, err := g.poRepo.FindByID(ctx, poID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, poID)
		}
		return nil, fmt.Errorf("load purchase order: %w", err)
	}

	var approvable []entity.PurchaseOrderLine
	for _, line := range po.Lines {
		if line.ApprovedQty > 0 &&
			(line.LineStatus == entity.LineStatusApproved || line.LineStatus == entity.LineStatusPartiallyApproved) {
			approvable = append(approvable, line)
		}
	}
	if len(approvable) == 0 {
		return nil, fmt.Errorf("%w: purchase order %s has no approved lines", ErrNoApprovedLines, poID)
	}

	groups := map[string][]entity.PurchaseOrderLine{}
	var groupOrder []string
	for _, line := range approvable {
		key := g.groupKey(line)
		if _, seen := groups[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], line)
	}

	result := &GenerateResult{}
	for _, key := range groupOrder {
		order, err := g.createOrder(ctx, po, groups[key], actorID)
		if err != nil {
			g.logger.Error("order group generation failed",
				zap.String("po_id", poID),
				zap.String("group", key),
				zap.Error(err))
			continue
		}
		result.OrderIDs = append(result.OrderIDs, order.ID)

		alerts, err := g.allocator.Allocate(ctx, order.ID)
		if err != nil {
			// Allocation is best-effort; the order stands either way.
			g.logger.Warn("stock allocation failed",
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
		result.LowStockAlerts = append(result.LowStockAlerts, alerts...)
	}

	if len(result.OrderIDs) == 0 {
		return nil, fmt.Errorf("%w: no orders could be created for purchase order %s", ErrGenerationFailed, poID)
	}

	rows, err := g.poRepo.UpdateStatusConditional(ctx, poID, entity.POStatusApproved, entity.POStatusOrdered, nil)
	if err != nil {
		return nil, fmt.Errorf("advance purchase order: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: purchase order %s left approved status during generation", ErrConcurrentModification, poID)
	}
	return result, nil
}

func (g *OrderGenerator) createOrder(ctx context.Context, po *entity.PurchaseOrder, lines []entity.PurchaseOrderLine, actorID string) (*entity.Order, error) {
	number := fmt.Sprintf("ORD-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
	order := &entity.Order{
		ID:              uuid.New().String(),
		OrderNumber:     number,
		PurchaseOrderID: po.ID,
		BrandID:         po.BrandID,
		DistributorID:   po.DistributorID,
		OrderStatus:     entity.OrderStatusSubmitted, // triggers downstream allocation
		PaymentStatus:   entity.PaymentStatusPending,
		Currency:        po.Currency,
		CreatedBy:       actorID,
	}

	var subtotal float64
	orderLines := make([]entity.OrderLine, 0, len(lines))
	for _, line := range lines {
		amount := float64(line.ApprovedQty) * line.UnitPrice
		subtotal += amount
		orderLines = append(orderLines, entity.OrderLine{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			POLineID:    line.ID,
			SKU:         line.SKU,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.ApprovedQty,
			UnitPrice:   line.UnitPrice,
			Amount:      amount,
		})
	}
	order.Subtotal = subtotal
	order.TotalAmount = subtotal
	order.Lines = orderLines

	if err := g.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}
