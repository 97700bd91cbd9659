package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
)

// Stock classifications for a requested quantity vs available stock.
const (
	StockSufficient   = "sufficient"
	StockPartial      = "partial"
	StockInsufficient = "insufficient"
)

// StockService answers stock questions for the approval workflow and
// performs optimistic on-hand deductions.
type StockService struct {
	stockRepo *repository.StockRepository
	poRepo    *repository.PurchaseOrderRepository
}

func NewStockService(stockRepo *repository.StockRepository, poRepo *repository.PurchaseOrderRepository) *StockService {
	return &StockService{stockRepo: stockRepo, poRepo: poRepo}
}

// GetStock returns the on-hand quantity for a SKU within a brand, or
// nil when the SKU is unknown.
func (s *StockService) GetStock(ctx context.Context, sku, brandID string) (*int, error) {
	product, err := s.stockRepo.FindBySKU(ctx, sku, brandID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load stock for %s: %w", sku, err)
	}
	qty := product.QuantityInStock
	return &qty, nil
}

// GetStockForMany returns on-hand quantities keyed by SKU. Unknown SKUs
// are absent from the map.
func (s *StockService) GetStockForMany(ctx context.Context, skus []string, brandID string) (map[string]int, error) {
	products, err := s.stockRepo.FindManyBySKU(ctx, skus, brandID)
	if err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}
	stock := make(map[string]int, len(products))
	for _, p := range products {
		stock[p.SKU] = p.QuantityInStock
	}
	return stock, nil
}

// Classify buckets a requested quantity against available stock.
func Classify(requestedQty, availableQty int) string {
	switch {
	case availableQty >= requestedQty:
		return StockSufficient
	case availableQty > 0:
		return StockPartial
	default:
		return StockInsufficient
	}
}

// SplitSuggestion is the proposed approve/backorder split for a line
// that cannot be fully approved from stock.
type SplitSuggestion struct {
	Classification string `json:"classification"`
	ApprovedQty    int    `json:"approved_qty"`
	BackorderQty   int    `json:"backorder_qty"`
	Message        string `json:"message,omitempty"`
}

// SuggestSplit proposes how to split a request that stock cannot cover.
// Partial stock yields an approve-what-we-have split; zero stock points
// the approver at the override path.
func SuggestSplit(requestedQty, availableQty int) SplitSuggestion {
	classification := Classify(requestedQty, availableQty)
	switch classification {
	case StockSufficient:
		return SplitSuggestion{Classification: classification, ApprovedQty: requestedQty}
	case StockPartial:
		return SplitSuggestion{
			Classification: classification,
			ApprovedQty:    availableQty,
			BackorderQty:   requestedQty - availableQty,
		}
	default:
		return SplitSuggestion{
			Classification: classification,
			BackorderQty:   requestedQty,
			Message:        "no stock available; approving requires an override with justification",
		}
	}
}

// ShouldTriggerLowStockAlert reports whether current stock has fallen
// to or below the reorder level. A missing reorder level never alerts.
func ShouldTriggerLowStockAlert(currentStock int, reorderLevel *int) bool {
	return reorderLevel != nil && currentStock <= *reorderLevel
}

// DeductStock subtracts qty from a product's on-hand stock using an
// optimistic re-check: if the row changed since it was read, the caller
// gets ErrConcurrentModification instead of a silent oversell.
func (s *StockService) DeductStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: deduct quantity must be positive", ErrValidation)
	}
	product, err := s.stockRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return fmt.Errorf("load product: %w", err)
	}
	if product.QuantityInStock < qty {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientStock, product.QuantityInStock, qty)
	}
	rows, err := s.stockRepo.DeductConditional(ctx, productID, qty, product.QuantityInStock)
	if err != nil {
		return fmt.Errorf("deduct stock: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: stock for product %s changed, re-read and retry", ErrConcurrentModification, productID)
	}
	return nil
}

// LineStockValidation is the per-line outcome of a PO stock check.
type LineStockValidation struct {
	LineID         string          `json:"line_id"`
	SKU            string          `json:"sku"`
	RequestedQty   int             `json:"requested_qty"`
	AvailableStock int             `json:"available_stock"`
	Classification string          `json:"classification"`
	Suggestion     SplitSuggestion `json:"suggestion"`
}

// StockValidationSummary aggregates the line results.
type StockValidationSummary struct {
	TotalLines        int  `json:"total_lines"`
	SufficientLines   int  `json:"sufficient_lines"`
	PartialLines      int  `json:"partial_lines"`
	InsufficientLines int  `json:"insufficient_lines"`
	AllSufficient     bool `json:"all_sufficient"`
}

// ValidateStockForPO checks every line of a purchase order against
// current stock and caches the per-line snapshot for approvers. It
// never blocks the workflow; results are informational.
func (s *StockService) ValidateStockForPO(ctx context.Context, poID string) ([]LineStockValidation, *StockValidationSummary, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, poID)
		}
		return nil, nil, fmt.Errorf("load purchase order: %w", err)
	}

	skus := make([]string, 0, len(po.Lines))
	for _, line := range po.Lines {
		skus = append(skus, line.SKU)
	}
	stock, err := s.GetStockForMany(ctx, skus, po.BrandID)
	if err != nil {
		return nil, nil, err
	}

	validations := make([]LineStockValidation, 0, len(po.Lines))
	summary := &StockValidationSummary{TotalLines: len(po.Lines)}
	for _, line := range po.Lines {
		available := stock[line.SKU] // unknown SKU counts as zero stock
		classification := Classify(line.RequestedQty, available)
		switch classification {
		case StockSufficient:
			summary.SufficientLines++
		case StockPartial:
			summary.PartialLines++
		default:
			summary.InsufficientLines++
		}
		validations = append(validations, LineStockValidation{
			LineID:         line.ID,
			SKU:            line.SKU,
			RequestedQty:   line.RequestedQty,
			AvailableStock: available,
			Classification: classification,
			Suggestion:     SuggestSplit(line.RequestedQty, available),
		})
		if err := s.poRepo.CacheLineStock(ctx, line.ID, available); err != nil {
			return nil, nil, fmt.Errorf("cache line stock: %w", err)
		}
	}
	summary.AllSufficient = summary.SufficientLines == summary.TotalLines
	return validations, summary, nil
}
