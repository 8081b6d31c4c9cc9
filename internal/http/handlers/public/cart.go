package public

import (
	"strings"

	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateCartItemRequest sets the quantity of a cart line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the priced cart. An applicable discountCode query
// parameter is reflected in the totals.
func (h *Handler) GetCart(c *gin.Context) {
	ctx := c.Request.Context()
	percent := 0
	if code := strings.TrimSpace(c.Query("discountCode")); code != "" {
		validation, err := h.DiscountService.ValidateDiscount(ctx, code)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if validation.Valid {
			percent = validation.Percent
		}
	}
	summary, err := h.CartService.GetCart(ctx, h.cartScope(c), percent)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, summary)
}

// AddToCart adds a painting variant to the cart.
func (h *Handler) AddToCart(c *gin.Context) {
	var req service.AddToCartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	scope := h.cartScope(c)
	if err := h.CartService.AddToCart(c.Request.Context(), scope, req); err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondCount(c, scope)
}

// UpdateCartItem changes the quantity of the line identified by :key.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	scope := h.cartScope(c)
	if err := h.CartService.UpdateCartItem(c.Request.Context(), scope, c.Param("key"), req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondCount(c, scope)
}

// RemoveCartItem deletes the line identified by :key.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	scope := h.cartScope(c)
	if err := h.CartService.RemoveCartItem(c.Request.Context(), scope, c.Param("key")); err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondCount(c, scope)
}

// CartCount returns the number of items in the cart.
func (h *Handler) CartCount(c *gin.Context) {
	h.respondCount(c, h.cartScope(c))
}

// respondCount reports the count of scope, which already reflects any write
// made on it during this request.
func (h *Handler) respondCount(c *gin.Context, scope service.CartScope) {
	count, err := h.CartService.CartCount(c.Request.Context(), scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}
