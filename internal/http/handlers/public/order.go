package public

import (
	"strings"

	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrdersQuery pages through the caller's orders.
type ListOrdersQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// ListOrders returns the signed-in customer's orders, newest first.
func (h *Handler) ListOrders(c *gin.Context) {
	id, ok := shared.RequireIdentity(c)
	if !ok {
		return
	}
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	page, pageSize := shared.NormalizePagination(query.Page, query.PageSize)
	orders, total, err := h.OrderService.ListUserOrders(c.Request.Context(), id.UserID, repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.ToUpper(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder returns one of the caller's orders.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := shared.RequireIdentity(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetUserOrder(c.Request.Context(), id.UserID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
