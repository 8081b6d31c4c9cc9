package admin

import (
	"strings"
	"time"

	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/identity"
	"github.com/elwarcha/gallery/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminOrdersQuery filters the order list.
type AdminOrdersQuery struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	Status      string `form:"status"`
	Search      string `form:"search"`
	CreatedFrom string `form:"created_from"`
	CreatedTo   string `form:"created_to"`
}

// UpdateOrderStatusRequest moves an order to another status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// GetAdminOrders lists orders with customer and items.
func (h *Handler) GetAdminOrders(c *gin.Context) {
	var query AdminOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondInvalidInput(c)
		return
	}
	page, pageSize := normalizePagination(query.Page, query.PageSize)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.ToUpper(strings.TrimSpace(query.Status)),
		Search:   strings.TrimSpace(query.Search),
	}
	var ok bool
	if filter.CreatedFrom, ok = parseQueryTime(query.CreatedFrom); !ok {
		respondInvalidInput(c)
		return
	}
	if filter.CreatedTo, ok = parseQueryTime(query.CreatedTo); !ok {
		respondInvalidInput(c)
		return
	}

	orders, total, err := h.OrderAdminService.List(c.Request.Context(), identity.From(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetAdminOrder returns an order with its items, history and customer.
func (h *Handler) GetAdminOrder(c *gin.Context) {
	orderID, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderAdminService.Get(c.Request.Context(), identity.From(c), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateAdminOrderStatus changes the status of an order.
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	orderID, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c)
		return
	}
	result, err := h.OrderAdminService.UpdateOrderStatus(c.Request.Context(), identity.From(c), orderID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !result.Unchanged {
		requestLog(c).Infow("admin_order_status_updated", "order_id", result.OrderID, "status", result.Status)
	}
	response.Success(c, result)
}

// parseQueryTime accepts RFC3339 or a bare date. Empty is no bound.
func parseQueryTime(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}
