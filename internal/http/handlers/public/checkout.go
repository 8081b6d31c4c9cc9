package public

import (
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/identity"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidateDiscountRequest checks a discount code before checkout.
type ValidateDiscountRequest struct {
	Code string `json:"code"`
}

// ValidateDiscount reports whether a code applies now and why not otherwise.
func (h *Handler) ValidateDiscount(c *gin.Context) {
	var req ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	result, err := h.DiscountService.ValidateDiscount(c.Request.Context(), req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// PlaceOrder turns the caller's cart into an order.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req service.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	result, err := h.OrderService.PlaceOrder(c.Request.Context(), identity.From(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
