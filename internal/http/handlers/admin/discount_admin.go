package admin

import (
	"strings"

	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/repository"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminDiscountsQuery filters the discount list.
type AdminDiscountsQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// GetAdminDiscounts lists codes with derived status and usage count.
func (h *Handler) GetAdminDiscounts(c *gin.Context) {
	var query AdminDiscountsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondInvalidInput(c)
		return
	}
	page, pageSize := normalizePagination(query.Page, query.PageSize)
	items, total, err := h.DiscountAdminService.List(c.Request.Context(), repository.DiscountListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(query.Search),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetAdminDiscount returns one code.
func (h *Handler) GetAdminDiscount(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	discount, err := h.DiscountAdminService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, discount)
}

// CreateAdminDiscount creates a code.
func (h *Handler) CreateAdminDiscount(c *gin.Context) {
	var req service.DiscountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c)
		return
	}
	discount, err := h.DiscountAdminService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_discount_created", "discount_id", discount.ID, "code", discount.Code)
	response.Success(c, discount)
}

// UpdateAdminDiscount replaces a code's fields.
func (h *Handler) UpdateAdminDiscount(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req service.DiscountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c)
		return
	}
	discount, err := h.DiscountAdminService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, discount)
}

// DeleteAdminDiscount deletes a code no order uses.
func (h *Handler) DeleteAdminDiscount(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.DiscountAdminService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_discount_deleted", "discount_id", id)
	response.Success(c, nil)
}
