package handler

import (
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/repository"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Get returns an order with its lines.
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, order)
}

// List returns generated orders with optional filters.
// GET /api/v1/orders?brand_id=&status=
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), repository.OrderListParams{
		BrandID:       c.Query("brand_id"),
		DistributorID: c.Query("distributor_id"),
		Status:        c.Query("status"),
		Page:          page,
		Size:          pageSize,
	})
	if err != nil {
		InternalError(c, "list orders failed: "+err.Error())
		return
	}
	Success(c, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Stats returns the order dashboard summary for a brand.
// GET /api/v1/orders/stats?brand_id=
func (h *OrderHandler) Stats(c *gin.Context) {
	brandID := c.Query("brand_id")
	if brandID == "" {
		BadRequest(c, "brand_id is required")
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), brandID)
	if err != nil {
		InternalError(c, "order stats failed: "+err.Error())
		return
	}
	Success(c, stats)
}
