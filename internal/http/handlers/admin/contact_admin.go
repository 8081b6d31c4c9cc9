package admin

import (
	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminMessagesQuery filters the contact inbox.
type AdminMessagesQuery struct {
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
	UnreadOnly bool `form:"unread"`
}

// GetAdminMessages lists contact messages, newest first.
func (h *Handler) GetAdminMessages(c *gin.Context) {
	var query AdminMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondInvalidInput(c)
		return
	}
	if query.PageSize <= 0 {
		query.PageSize = 25
	}
	page, pageSize := normalizePagination(query.Page, query.PageSize)
	messages, total, err := h.ContactAdminService.List(c.Request.Context(), repository.ContactMessageListFilter{
		Page:       page,
		PageSize:   pageSize,
		UnreadOnly: query.UnreadOnly,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, messages, response.NewPagination(page, pageSize, total))
}

func (h *Handler) GetAdminMessage(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	message, err := h.ContactAdminService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, message)
}

// MarkAdminMessageRead stamps a message as read.
func (h *Handler) MarkAdminMessageRead(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.ContactAdminService.MarkRead(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) DeleteAdminMessage(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.ContactAdminService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_message_deleted", "message_id", id)
	response.Success(c, nil)
}
