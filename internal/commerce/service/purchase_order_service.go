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

// PurchaseOrderService covers PO creation and reads. All status and
// line mutations live on WorkflowService; nothing here writes state
// past draft creation.
type PurchaseOrderService struct {
	poRepo      *repository.PurchaseOrderRepository
	stockRepo   *repository.StockRepository
	historyRepo *repository.ApprovalHistoryRepository
}

func NewPurchaseOrderService(poRepo *repository.PurchaseOrderRepository, stockRepo *repository.StockRepository, historyRepo *repository.ApprovalHistoryRepository) *PurchaseOrderService {
	return &PurchaseOrderService{poRepo: poRepo, stockRepo: stockRepo, historyRepo: historyRepo}
}

// CreatePORequest is the payload for creating a draft purchase order.
type CreatePORequest struct {
	BrandID       string         `json:"brand_id" binding:"required"`
	DistributorID *string        `json:"distributor_id"`
	SupplierName  string         `json:"supplier_name"`
	SupplierEmail string         `json:"supplier_email"`
	Currency      string         `json:"currency"`
	Notes         string         `json:"notes"`
	Tags          []string       `json:"tags"`
	Lines         []CreatePOLine `json:"lines" binding:"required,min=1"`
}

// CreatePOLine is a single requested SKU on a new purchase order.
type CreatePOLine struct {
	SKU          string  `json:"sku" binding:"required"`
	RequestedQty int     `json:"requested_qty" binding:"required,gt=0"`
	UnitPrice    float64 `json:"unit_price" binding:"required,gt=0"`
	Notes        string  `json:"notes"`
}

// Create opens a purchase order in draft. Line product references are
// resolved by SKU within the brand when they exist.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePORequest, actorID string) (*entity.PurchaseOrder, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	number := fmt.Sprintf("PO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)

	po := &entity.PurchaseOrder{
		ID:            uuid.New().String(),
		PONumber:      number,
		BrandID:       req.BrandID,
		DistributorID: req.DistributorID,
		SupplierName:  req.SupplierName,
		SupplierEmail: req.SupplierEmail,
		POStatus:      entity.POStatusDraft,
		PaymentStatus: entity.PaymentStatusPending,
		Currency:      currency,
		Notes:         req.Notes,
		Tags:          req.Tags,
		CreatedBy:     actorID,
	}

	var subtotal float64
	lines := make([]entity.PurchaseOrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		amount := float64(line.RequestedQty) * line.UnitPrice
		subtotal += amount

		entityLine := entity.PurchaseOrderLine{
			ID:           uuid.New().String(),
			POID:         po.ID,
			SKU:          line.SKU,
			RequestedQty: line.RequestedQty,
			UnitPrice:    line.UnitPrice,
			LineStatus:   entity.LineStatusPending,
			Notes:        line.Notes,
		}
		if product, err := s.stockRepo.FindBySKU(ctx, line.SKU, req.BrandID); err == nil {
			entityLine.ProductID = &product.ID
			entityLine.ProductName = product.Name
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("resolve product for %s: %w", line.SKU, err)
		}
		lines = append(lines, entityLine)
	}
	po.Subtotal = subtotal
	po.TotalAmount = subtotal
	po.Lines = lines

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	return po, nil
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, id)
		}
		return nil, err
	}
	return po, nil
}

func (s *PurchaseOrderService) List(ctx context.Context, params repository.POListParams) ([]entity.PurchaseOrder, int64, error) {
	return s.poRepo.List(ctx, params)
}

// History returns the append-only approval trail, oldest first.
func (s *PurchaseOrderService) History(ctx context.Context, poID string) ([]entity.ApprovalHistoryEntry, error) {
	if _, err := s.GetByID(ctx, poID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByPO(ctx, poID)
}
