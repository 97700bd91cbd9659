package handler

import (
	"time"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/service"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler exposes PO CRUD, the workflow transitions and
// per-line approval.
type PurchaseOrderHandler struct {
	poSvc        *service.PurchaseOrderService
	workflowSvc  *service.WorkflowService
	stockSvc     *service.StockService
	orderSvc     *service.OrderService
	backorderSvc *service.BackorderService
	notifier     service.Notifier
}

func NewPurchaseOrderHandler(svc *service.Services) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		poSvc:        svc.PurchaseOrder,
		workflowSvc:  svc.Workflow,
		stockSvc:     svc.Stock,
		orderSvc:     svc.Order,
		backorderSvc: svc.Backorder,
		notifier:     svc.Notifier,
	}
}

// Create opens a draft purchase order.
// POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	po, err := h.poSvc.Create(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, po)
}

// Get returns a purchase order with its lines.
// GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	po, err := h.poSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, po)
}

// List returns purchase orders with optional filters.
// GET /api/v1/purchase-orders?brand_id=&status=&payment_status=&keyword=&date_from=&date_to=
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.POListParams{
		BrandID:       c.Query("brand_id"),
		DistributorID: c.Query("distributor_id"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Keyword:       c.Query("keyword"),
		Page:          page,
		Size:          pageSize,
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			BadRequest(c, "date_from must be YYYY-MM-DD")
			return
		}
		params.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			BadRequest(c, "date_to must be YYYY-MM-DD")
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		params.DateTo = &end
	}

	items, total, err := h.poSvc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, "list purchase orders failed: "+err.Error())
		return
	}
	Success(c, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// History returns the approval trail, oldest first.
// GET /api/v1/purchase-orders/:id/history
func (h *PurchaseOrderHandler) History(c *gin.Context) {
	entries, err := h.poSvc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": entries})
}

type transitionRequest struct {
	Comments string `json:"comments"`
}

// transition runs one workflow action and publishes the event after
// the mutation has committed.
func (h *PurchaseOrderHandler) transition(c *gin.Context, action string) {
	var req transitionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request: "+err.Error())
			return
		}
	}
	if action == entity.POActionReject && req.Comments == "" {
		BadRequest(c, "rejecting a purchase order requires comments")
		return
	}

	poID := c.Param("id")
	actorID := GetUserID(c)
	result, err := h.workflowSvc.ExecuteTransition(c.Request.Context(), poID, actorID, action, req.Comments)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.notifier.NotifyTransition(c.Request.Context(), service.TransitionEvent{
		POID:       result.PO.ID,
		PONumber:   result.PO.PONumber,
		BrandID:    result.PO.BrandID,
		Action:     action,
		FromStatus: result.FromStatus,
		ToStatus:   result.PO.POStatus,
		ActorID:    actorID,
		OccurredAt: time.Now(),
	})
	Success(c, result)
}

// POST /api/v1/purchase-orders/:id/submit
func (h *PurchaseOrderHandler) Submit(c *gin.Context) { h.transition(c, entity.POActionSubmit) }

// POST /api/v1/purchase-orders/:id/approve
func (h *PurchaseOrderHandler) Approve(c *gin.Context) { h.transition(c, entity.POActionApprove) }

// POST /api/v1/purchase-orders/:id/reject
func (h *PurchaseOrderHandler) Reject(c *gin.Context) { h.transition(c, entity.POActionReject) }

// POST /api/v1/purchase-orders/:id/order
func (h *PurchaseOrderHandler) Order(c *gin.Context) { h.transition(c, entity.POActionOrder) }

// POST /api/v1/purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) { h.transition(c, entity.POActionReceive) }

// POST /api/v1/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) { h.transition(c, entity.POActionCancel) }

// ApproveLine records a per-line split decision.
// POST /api/v1/purchase-orders/:id/lines/:lineId/approve
func (h *PurchaseOrderHandler) ApproveLine(c *gin.Context) {
	var req service.LineDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	result, err := h.workflowSvc.ApproveLine(c.Request.Context(), c.Param("id"), c.Param("lineId"), GetUserID(c), req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, result)
}

// StockValidation re-runs stock checks against current inventory.
// GET /api/v1/purchase-orders/:id/stock-validation
func (h *PurchaseOrderHandler) StockValidation(c *gin.Context) {
	validations, summary, err := h.stockSvc.ValidateStockForPO(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"lines": validations, "summary": summary})
}

// Orders lists the orders generated from a purchase order.
// GET /api/v1/purchase-orders/:id/orders
func (h *PurchaseOrderHandler) Orders(c *gin.Context) {
	orders, err := h.orderSvc.ListByPO(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "list orders failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": orders})
}

// Backorders lists the backorders raised by a purchase order's line
// decisions.
// GET /api/v1/purchase-orders/:id/backorders
func (h *PurchaseOrderHandler) Backorders(c *gin.Context) {
	backorders, err := h.backorderSvc.ListForPO(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "list backorders failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": backorders})
}
