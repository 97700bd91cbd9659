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

// transitionTarget maps each workflow action to its one target status.
var transitionTarget = map[string]string{
	entity.POActionSubmit:  entity.POStatusSubmitted,
	entity.POActionApprove: entity.POStatusApproved,
	entity.POActionReject:  entity.POStatusRejected,
	entity.POActionOrder:   entity.POStatusOrdered,
	entity.POActionReceive: entity.POStatusReceived,
	entity.POActionCancel:  entity.POStatusCancelled,
}

// transitionSources is the legal-transition adjacency table: the set of
// statuses each action may be taken from. Rejected, received and
// cancelled are terminal; adding a status is a data change here, not a
// code change.
var transitionSources = map[string][]string{
	entity.POActionSubmit:  {entity.POStatusDraft},
	entity.POActionApprove: {entity.POStatusSubmitted},
	entity.POActionReject:  {entity.POStatusSubmitted},
	entity.POActionOrder:   {entity.POStatusApproved},
	entity.POActionReceive: {entity.POStatusOrdered},
	entity.POActionCancel:  {entity.POStatusDraft, entity.POStatusSubmitted, entity.POStatusApproved, entity.POStatusOrdered},
}

// CanTransition reports whether action is legal from status.
func CanTransition(status, action string) bool {
	for _, from := range transitionSources[action] {
		if from == status {
			return true
		}
	}
	return false
}

// WorkflowService is the purchase order state machine. Every PO status
// change and line decision passes through here; nothing else writes
// them, and every successful mutation appends exactly one approval
// history entry.
type WorkflowService struct {
	poRepo       *repository.PurchaseOrderRepository
	historyRepo  *repository.ApprovalHistoryRepository
	stockSvc     *StockService
	permissions  *PermissionService
	backorderSvc *BackorderService
	generator    *OrderGenerator
	logger       *zap.Logger
}

func NewWorkflowService(
	poRepo *repository.PurchaseOrderRepository,
	historyRepo *repository.ApprovalHistoryRepository,
	stockSvc *StockService,
	permissions *PermissionService,
	backorderSvc *BackorderService,
	generator *OrderGenerator,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		poRepo:       poRepo,
		historyRepo:  historyRepo,
		stockSvc:     stockSvc,
		permissions:  permissions,
		backorderSvc: backorderSvc,
		generator:    generator,
		logger:       logger,
	}
}

// TransitionResult is returned from a successful transition.
type TransitionResult struct {
	PO            *entity.PurchaseOrder `json:"po"`
	FromStatus    string                `json:"from_status"`
	Generated     *GenerateResult       `json:"generated,omitempty"`
	StockWarnings entity.JSONB          `json:"stock_warnings,omitempty"`
}

// ExecuteTransition moves a purchase order through the state machine.
// The engine's contract ends at the data mutation plus the history
// entry; the caller dispatches notifications after commit.
func (s *WorkflowService) ExecuteTransition(ctx context.Context, poID, actorID, action, comments string) (*TransitionResult, error) {
	target, known := transitionTarget[action]
	if !known {
		return nil, fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}

	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, poID)
		}
		return nil, fmt.Errorf("load purchase order: %w", err)
	}
	if !CanTransition(po.POStatus, action) {
		return nil, fmt.Errorf("%w: cannot %s a purchase order in %s status", ErrInvalidTransition, action, po.POStatus)
	}

	result := &TransitionResult{FromStatus: po.POStatus}
	now := time.Now()
	updates := map[string]interface{}{}

	switch action {
	case entity.POActionSubmit:
		updates["submitted_at"] = now

	case entity.POActionApprove, entity.POActionReject:
		decision, err := s.permissions.IsApprover(ctx, actorID, po)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
		}
		if action == entity.POActionApprove {
			updates["approved_at"] = now
			updates["approved_by"] = actorID
		} else {
			updates["rejection_reason"] = comments
		}

	case entity.POActionOrder:
		// Order generation runs synchronously and itself advances the
		// PO from approved to ordered; if it fails the status is never
		// touched, so an ordered PO always has at least one order.
		generated, err := s.generator.GenerateFromPO(ctx, poID, actorID)
		if err != nil {
			return nil, err
		}
		result.Generated = generated
		s.appendHistory(ctx, &entity.ApprovalHistoryEntry{
			POID:     poID,
			Action:   action,
			ActorID:  actorID,
			Comments: comments,
		})
		po, err = s.poRepo.FindByID(ctx, poID)
		if err != nil {
			return nil, fmt.Errorf("reload purchase order: %w", err)
		}
		result.PO = po
		return result, nil
	}

	rows, err := s.poRepo.UpdateStatusConditional(ctx, poID, po.POStatus, target, updates)
	if err != nil {
		return nil, fmt.Errorf("update purchase order status: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: purchase order %s is no longer %s, re-read and retry", ErrConcurrentModification, poID, po.POStatus)
	}

	// Stock validation at submit time is informational: the snapshot is
	// cached for approvers and never blocks the submission.
	if action == entity.POActionSubmit {
		validations, summary, err := s.stockSvc.ValidateStockForPO(ctx, poID)
		if err != nil {
			s.logger.Warn("stock validation after submit failed",
				zap.String("po_id", poID),
				zap.Error(err))
		} else if !summary.AllSufficient {
			result.StockWarnings = stockWarningSnapshot(validations)
		}
	}

	s.appendHistory(ctx, &entity.ApprovalHistoryEntry{
		POID:          poID,
		Action:        action,
		ActorID:       actorID,
		Comments:      comments,
		StockWarnings: result.StockWarnings,
	})

	po, err = s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, fmt.Errorf("reload purchase order: %w", err)
	}
	result.PO = po
	return result, nil
}

// LineDecisionRequest is the approver's split for a single line.
type LineDecisionRequest struct {
	ApprovedQty     int    `json:"approved_qty"`
	BackorderQty    int    `json:"backorder_qty"`
	RejectedQty     int    `json:"rejected_qty"`
	OverrideApplied bool   `json:"override_applied"`
	OverrideReason  string `json:"override_reason"`
	Notes           string `json:"notes"`
}

// LineDecisionResult carries the decided line and the backorder the
// decision raised. BackorderError is set when the line decision
// committed but the backorder record could not be created, so the
// caller sees the gap instead of a silent log line.
type LineDecisionResult struct {
	Line           *entity.PurchaseOrderLine `json:"line"`
	Backorder      *entity.Backorder         `json:"backorder,omitempty"`
	BackorderError string                    `json:"backorder_error,omitempty"`
}

// ApproveLine records a per-line decision while the PO is submitted.
// Validation order: quantity sum, approver permission, override
// permission and reason, then stock vs the cached snapshot.
func (s *WorkflowService) ApproveLine(ctx context.Context, poID, lineID, actorID string, req LineDecisionRequest) (*LineDecisionResult, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, poID)
		}
		return nil, fmt.Errorf("load purchase order: %w", err)
	}
	if po.POStatus != entity.POStatusSubmitted {
		return nil, fmt.Errorf("%w: line decisions require a submitted purchase order, status is %s", ErrInvalidTransition, po.POStatus)
	}

	line, err := s.poRepo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: line %s", ErrNotFound, lineID)
		}
		return nil, fmt.Errorf("load line: %w", err)
	}
	if line.POID != poID {
		return nil, fmt.Errorf("%w: line %s does not belong to purchase order %s", ErrNotFound, lineID, poID)
	}

	if req.ApprovedQty < 0 || req.BackorderQty < 0 || req.RejectedQty < 0 {
		return nil, fmt.Errorf("%w: quantities cannot be negative", ErrValidation)
	}
	if req.ApprovedQty+req.BackorderQty+req.RejectedQty != line.RequestedQty {
		return nil, fmt.Errorf("%w: approved %d + backordered %d + rejected %d must equal requested %d",
			ErrQuantityMismatch, req.ApprovedQty, req.BackorderQty, req.RejectedQty, line.RequestedQty)
	}

	decision, err := s.permissions.IsApprover(ctx, actorID, po)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	if req.OverrideApplied {
		overrideDecision, err := s.permissions.IsOverrideApprover(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !overrideDecision.Allowed {
			return nil, fmt.Errorf("%w: %s", ErrForbidden, overrideDecision.Reason)
		}
		if req.OverrideReason == "" {
			return nil, fmt.Errorf("%w: override requires a justification", ErrValidation)
		}
	}

	available := 0
	if line.AvailableStock != nil {
		available = *line.AvailableStock
	}
	if !req.OverrideApplied && req.ApprovedQty > available {
		return nil, fmt.Errorf("%w: approving %d exceeds available stock %d; retry with an override or a split",
			ErrInsufficientStock, req.ApprovedQty, available)
	}

	now := time.Now()
	newStatus := entity.DeriveLineStatus(line.RequestedQty, req.ApprovedQty, req.BackorderQty, req.RejectedQty)
	updates := map[string]interface{}{
		"approved_qty":  req.ApprovedQty,
		"backorder_qty": req.BackorderQty,
		"rejected_qty":  req.RejectedQty,
		"line_status":   newStatus,
		"notes":         req.Notes,
	}
	if req.OverrideApplied {
		updates["override_applied"] = true
		updates["override_by"] = actorID
		updates["override_reason"] = req.OverrideReason
		updates["override_at"] = now
	}

	rows, err := s.poRepo.UpdateLineConditional(ctx, lineID, line.LineStatus, updates)
	if err != nil {
		return nil, fmt.Errorf("update line: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: line %s was decided by another approver, re-read and retry", ErrConcurrentModification, lineID)
	}

	result := &LineDecisionResult{}
	if req.BackorderQty > 0 {
		backorder, err := s.backorderSvc.Create(ctx, CreateBackorderRequest{
			POID:         poID,
			POLineID:     lineID,
			BrandID:      po.BrandID,
			ProductID:    line.ProductID,
			SKU:          line.SKU,
			BackorderQty: req.BackorderQty,
			Notes:        req.Notes,
		}, actorID)
		if err != nil {
			// The line decision is already committed; report the missing
			// backorder record instead of failing the decision.
			result.BackorderError = fmt.Sprintf("backorder for %d units of %s was not recorded: %v",
				req.BackorderQty, line.SKU, err)
			s.logger.Error("backorder creation failed after line decision",
				zap.String("po_id", poID),
				zap.String("line_id", lineID),
				zap.Error(err))
		} else {
			result.Backorder = backorder
		}
	}

	var warnings entity.JSONB
	if req.OverrideApplied || req.ApprovedQty > available {
		warnings = entity.JSONB{
			"sku":             line.SKU,
			"available_stock": available,
			"approved_qty":    req.ApprovedQty,
		}
	}
	if result.BackorderError != "" {
		if warnings == nil {
			warnings = entity.JSONB{}
		}
		warnings["backorder_error"] = result.BackorderError
	}
	s.appendHistory(ctx, &entity.ApprovalHistoryEntry{
		POID:            poID,
		Action:          "line_decision",
		ActorID:         actorID,
		Comments:        req.Notes,
		AffectedLineIDs: entity.StringArray{lineID},
		OverrideApplied: req.OverrideApplied,
		StockWarnings:   warnings,
	})

	updated, err := s.poRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("reload line: %w", err)
	}
	result.Line = updated
	return result, nil
}

// appendHistory writes an audit entry. History is append-only and
// best-effort relative to the already committed mutation; a write
// failure is logged, never propagated.
func (s *WorkflowService) appendHistory(ctx context.Context, ent *entity.ApprovalHistoryEntry) {
	ent.ID = uuid.New().String()
	if err := s.historyRepo.Create(ctx, ent); err != nil {
		s.logger.Error("failed to append approval history",
			zap.String("po_id", ent.POID),
			zap.String("action", ent.Action),
			zap.Error(err))
	}
}

func stockWarningSnapshot(validations []LineStockValidation) entity.JSONB {
	var warnings []map[string]interface{}
	for _, v := range validations {
		if v.Classification == StockSufficient {
			continue
		}
		warnings = append(warnings, map[string]interface{}{
			"line_id":         v.LineID,
			"sku":             v.SKU,
			"requested_qty":   v.RequestedQty,
			"available_stock": v.AvailableStock,
			"classification":  v.Classification,
		})
	}
	if len(warnings) == 0 {
		return nil
	}
	return entity.JSONB{"lines": warnings}
}
