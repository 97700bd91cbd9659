package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
)

// OrderService exposes read access to generated orders. Orders are
// created by the generator only; there is no direct create path.
type OrderService struct {
	orderRepo *repository.OrderRepository
}

func NewOrderService(orderRepo *repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, params repository.OrderListParams) ([]entity.Order, int64, error) {
	return s.orderRepo.List(ctx, params)
}

func (s *OrderService) ListByPO(ctx context.Context, poID string) ([]entity.Order, error) {
	return s.orderRepo.ListByPO(ctx, poID)
}

// OrderStats is the dashboard summary for a brand.
type OrderStats struct {
	TotalOrders  int64            `json:"total_orders"`
	StatusCounts map[string]int64 `json:"status_counts"`
	TotalRevenue float64          `json:"total_revenue"`
}

func (s *OrderService) Stats(ctx context.Context, brandID string) (*OrderStats, error) {
	counts, err := s.orderRepo.StatusCounts(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	revenue, err := s.orderRepo.TotalRevenue(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	return &OrderStats{
		TotalOrders:  total,
		StatusCounts: counts,
		TotalRevenue: revenue,
	}, nil
}
