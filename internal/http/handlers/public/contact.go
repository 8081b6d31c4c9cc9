package public

import (
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitContact stores a contact form message.
func (h *Handler) SubmitContact(c *gin.Context) {
	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, shared.KeyInvalidInput, nil)
		return
	}
	result, err := h.ContactService.Submit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true, "ignored": result.Ignored})
}
