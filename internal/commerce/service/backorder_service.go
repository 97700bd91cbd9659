package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"github.com/google/uuid"
)

// BackorderService creates and tracks backorder records. Statuses only
// move forward; fulfilled quantity never exceeds the backordered
// quantity.
type BackorderService struct {
	backorderRepo *repository.BackorderRepository
}

func NewBackorderService(backorderRepo *repository.BackorderRepository) *BackorderService {
	return &BackorderService{backorderRepo: backorderRepo}
}

// CreateBackorderRequest carries the inputs for a new backorder.
type CreateBackorderRequest struct {
	POID         string
	POLineID     string
	BrandID      string
	ProductID    *string
	SKU          string
	BackorderQty int
	ExpectedDate *time.Time
	Notes        string
}

func (s *BackorderService) Create(ctx context.Context, req CreateBackorderRequest, actorID string) (*entity.Backorder, error) {
	if req.BackorderQty <= 0 {
		return nil, fmt.Errorf("%w: backorder quantity must be positive", ErrValidation)
	}
	backorder := &entity.Backorder{
		ID:                      uuid.New().String(),
		POID:                    req.POID,
		POLineID:                req.POLineID,
		BrandID:                 req.BrandID,
		ProductID:               req.ProductID,
		SKU:                     req.SKU,
		BackorderQty:            req.BackorderQty,
		BackorderStatus:         entity.BackorderStatusPending,
		ExpectedFulfillmentDate: req.ExpectedDate,
		Notes:                   req.Notes,
		CreatedBy:               actorID,
	}
	if err := s.backorderRepo.Create(ctx, backorder); err != nil {
		return nil, fmt.Errorf("create backorder: %w", err)
	}
	return backorder, nil
}

// statusRank orders the forward-only progression. Cancelled is reached
// from any non-terminal state, not by rank.
var backorderStatusRank = map[string]int{
	entity.BackorderStatusPending:            0,
	entity.BackorderStatusPartiallyFulfilled: 1,
	entity.BackorderStatusFulfilled:          2,
}

// Track records fulfillment progress. The status may not regress and a
// terminal backorder cannot be re-tracked.
func (s *BackorderService) Track(ctx context.Context, backorderID, status string, fulfilledQty int) (*entity.Backorder, error) {
	targetRank, ok := backorderStatusRank[status]
	if !ok {
		return nil, fmt.Errorf("%w: unknown backorder status %q", ErrValidation, status)
	}

	backorder, err := s.backorderRepo.FindByID(ctx, backorderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: backorder %s", ErrNotFound, backorderID)
		}
		return nil, fmt.Errorf("load backorder: %w", err)
	}
	if backorder.IsTerminal() {
		return nil, fmt.Errorf("%w: backorder is %s and cannot be re-tracked", ErrInvalidTransition, backorder.BackorderStatus)
	}
	if targetRank < backorderStatusRank[backorder.BackorderStatus] {
		return nil, fmt.Errorf("%w: cannot move backorder from %s back to %s", ErrInvalidTransition, backorder.BackorderStatus, status)
	}
	if fulfilledQty < backorder.FulfilledQty {
		return nil, fmt.Errorf("%w: fulfilled quantity cannot decrease", ErrValidation)
	}
	if fulfilledQty > backorder.BackorderQty {
		return nil, fmt.Errorf("%w: fulfilled %d exceeds backordered %d", ErrValidation, fulfilledQty, backorder.BackorderQty)
	}
	if status == entity.BackorderStatusFulfilled && fulfilledQty != backorder.BackorderQty {
		return nil, fmt.Errorf("%w: fulfilled status requires the full quantity", ErrValidation)
	}

	rows, err := s.backorderRepo.UpdateConditional(ctx, backorderID, backorder.BackorderStatus, map[string]interface{}{
		"backorder_status": status,
		"fulfilled_qty":    fulfilledQty,
	})
	if err != nil {
		return nil, fmt.Errorf("update backorder: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: backorder %s changed, re-read and retry", ErrConcurrentModification, backorderID)
	}
	backorder.BackorderStatus = status
	backorder.FulfilledQty = fulfilledQty
	return backorder, nil
}

// Cancel moves a non-terminal backorder to cancelled.
func (s *BackorderService) Cancel(ctx context.Context, backorderID, reason string) (*entity.Backorder, error) {
	backorder, err := s.backorderRepo.FindByID(ctx, backorderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: backorder %s", ErrNotFound, backorderID)
		}
		return nil, fmt.Errorf("load backorder: %w", err)
	}
	if backorder.IsTerminal() {
		return nil, fmt.Errorf("%w: backorder is already %s", ErrInvalidTransition, backorder.BackorderStatus)
	}

	updates := map[string]interface{}{"backorder_status": entity.BackorderStatusCancelled}
	if reason != "" {
		notes := backorder.Notes
		if notes != "" {
			notes += "\n"
		}
		updates["notes"] = notes + "cancelled: " + reason
	}
	rows, err := s.backorderRepo.UpdateConditional(ctx, backorderID, backorder.BackorderStatus, updates)
	if err != nil {
		return nil, fmt.Errorf("cancel backorder: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: backorder %s changed, re-read and retry", ErrConcurrentModification, backorderID)
	}
	backorder.BackorderStatus = entity.BackorderStatusCancelled
	return backorder, nil
}

// LinkToOrder attaches the order that will fulfill this backorder.
func (s *BackorderService) LinkToOrder(ctx context.Context, backorderID, orderID string) (*entity.Backorder, error) {
	backorder, err := s.backorderRepo.FindByID(ctx, backorderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: backorder %s", ErrNotFound, backorderID)
		}
		return nil, fmt.Errorf("load backorder: %w", err)
	}
	if backorder.IsTerminal() {
		return nil, fmt.Errorf("%w: backorder is %s", ErrInvalidTransition, backorder.BackorderStatus)
	}
	rows, err := s.backorderRepo.UpdateConditional(ctx, backorderID, backorder.BackorderStatus, map[string]interface{}{
		"order_id": orderID,
	})
	if err != nil {
		return nil, fmt.Errorf("link backorder: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: backorder %s changed, re-read and retry", ErrConcurrentModification, backorderID)
	}
	backorder.OrderID = &orderID
	return backorder, nil
}

func (s *BackorderService) ListPending(ctx context.Context, brandID string) ([]entity.Backorder, error) {
	return s.backorderRepo.ListPending(ctx, brandID)
}

func (s *BackorderService) ListForPO(ctx context.Context, poID string) ([]entity.Backorder, error) {
	return s.backorderRepo.ListByPO(ctx, poID)
}
