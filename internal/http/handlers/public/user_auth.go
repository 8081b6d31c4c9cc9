package public

import (
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// Register creates a customer account and signs it in.
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	result, err := h.UserAuthService.Register(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	h.mergeGuestCart(c, result.User.ID)
	response.Success(c, result)
}

// Login signs a customer in.
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	result, err := h.UserAuthService.Login(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	h.mergeGuestCart(c, result.User.ID)
	response.Success(c, result)
}

// Me returns the signed-in user.
func (h *Handler) Me(c *gin.Context) {
	id, ok := shared.RequireIdentity(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.Me(c.Request.Context(), id.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// mergeGuestCart moves the guest cookie cart into the user's cart. Sign-in
// never fails because of it.
func (h *Handler) mergeGuestCart(c *gin.Context, userID uint) {
	merged, err := h.CartService.MergeGuestCartIntoUser(c.Request.Context(), userID, h.guestStore(c))
	if err != nil {
		shared.RequestLog(c).Warnw("cart_merge_failed", "user_id", userID, "error", err)
		return
	}
	if merged > 0 {
		shared.RequestLog(c).Infow("cart_merged_on_sign_in", "user_id", userID, "lines", merged)
	}
}

// UpdateProfile changes the signed-in user's name.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := shared.RequireIdentity(c)
	if !ok {
		return
	}
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	user, err := h.UserAuthService.UpdateProfile(c.Request.Context(), id.UserID, req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, user)
}

// ChangePassword replaces the signed-in user's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := shared.RequireIdentity(c)
	if !ok {
		return
	}
	var req service.ChangePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	if err := h.UserAuthService.ChangePassword(c.Request.Context(), id.UserID, req); err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, nil)
}
