package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"go.uber.org/zap"
)

// AllocationService reserves stock for submitted orders. Reservation
// bumps reserved_qty and leaves on-hand stock untouched; deduction
// happens at shipment, outside this workflow.
type AllocationService struct {
	orderRepo *repository.OrderRepository
	stockRepo *repository.StockRepository
	logger    *zap.Logger
}

func NewAllocationService(orderRepo *repository.OrderRepository, stockRepo *repository.StockRepository, logger *zap.Logger) *AllocationService {
	return &AllocationService{orderRepo: orderRepo, stockRepo: stockRepo, logger: logger}
}

// Allocate reserves stock for every line of the order and collects
// low-stock signals. Lines without a product reference, or with too
// little unreserved stock, are skipped with a warning rather than
// failing the whole order.
func (s *AllocationService) Allocate(ctx context.Context, orderID string) ([]LowStockAlert, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	var alerts []LowStockAlert
	for _, line := range order.Lines {
		if line.ProductID == nil {
			s.logger.Warn("skipping allocation for line without product",
				zap.String("order_id", orderID),
				zap.String("sku", line.SKU))
			continue
		}
		rows, err := s.stockRepo.Reserve(ctx, *line.ProductID, line.Quantity)
		if err != nil {
			return alerts, fmt.Errorf("reserve stock for %s: %w", line.SKU, err)
		}
		if rows == 0 {
			s.logger.Warn("insufficient unreserved stock to allocate",
				zap.String("order_id", orderID),
				zap.String("sku", line.SKU),
				zap.Int("quantity", line.Quantity))
			continue
		}

		product, err := s.stockRepo.FindByID(ctx, *line.ProductID)
		if err != nil {
			continue
		}
		remaining := product.QuantityInStock - product.ReservedQty
		if ShouldTriggerLowStockAlert(remaining, product.ReorderLevel) {
			alerts = append(alerts, LowStockAlert{
				ProductID:    product.ID,
				SKU:          product.SKU,
				CurrentStock: remaining,
				ReorderLevel: *product.ReorderLevel,
			})
		}
	}
	return alerts, nil
}
