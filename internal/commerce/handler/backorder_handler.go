package handler

import (
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/service"
	"github.com/gin-gonic/gin"
)

type BackorderHandler struct {
	svc *service.BackorderService
}

func NewBackorderHandler(svc *service.BackorderService) *BackorderHandler {
	return &BackorderHandler{svc: svc}
}

// ListPending returns open backorders for a brand.
// GET /api/v1/backorders?brand_id=
func (h *BackorderHandler) ListPending(c *gin.Context) {
	brandID := c.Query("brand_id")
	if brandID == "" {
		BadRequest(c, "brand_id is required")
		return
	}
	items, err := h.svc.ListPending(c.Request.Context(), brandID)
	if err != nil {
		InternalError(c, "list backorders failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

type trackBackorderRequest struct {
	Status       string `json:"status" binding:"required"`
	FulfilledQty int    `json:"fulfilled_qty"`
}

// Track advances a backorder's fulfillment state.
// PUT /api/v1/backorders/:id/track
func (h *BackorderHandler) Track(c *gin.Context) {
	var req trackBackorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	backorder, err := h.svc.Track(c.Request.Context(), c.Param("id"), req.Status, req.FulfilledQty)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, backorder)
}

type linkBackorderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// Link attaches the order that will fulfill a backorder.
// POST /api/v1/backorders/:id/link
func (h *BackorderHandler) Link(c *gin.Context) {
	var req linkBackorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	backorder, err := h.svc.LinkToOrder(c.Request.Context(), c.Param("id"), req.OrderID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, backorder)
}

type cancelBackorderRequest struct {
	Reason string `json:"reason"`
}

// Cancel closes a backorder without fulfillment.
// POST /api/v1/backorders/:id/cancel
func (h *BackorderHandler) Cancel(c *gin.Context) {
	var req cancelBackorderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request: "+err.Error())
			return
		}
	}
	backorder, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, backorder)
}
