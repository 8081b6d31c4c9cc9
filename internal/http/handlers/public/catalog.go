package public

import (
	"strconv"

	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPaintings serves the public catalog. A query that cannot be bound is
// treated like an invalid filter set: the unfiltered catalog is listed.
func (h *Handler) ListPaintings(c *gin.Context) {
	var input service.PaintingFilterInput
	if err := c.ShouldBindQuery(&input); err != nil {
		shared.RequestLog(c).Debugw("catalog_query_bind_failed", "error", err)
		page, _ := strconv.Atoi(c.Query("page"))
		input = service.PaintingFilterInput{Page: page, Malformed: true}
	}
	page, err := h.CatalogService.ListPaintings(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, page)
}

// GetPainting returns a painting with its images, options and taxonomy.
func (h *Handler) GetPainting(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	painting, err := h.CatalogService.GetPainting(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, painting)
}

// ListFacets returns the artists, styles and techniques used by filters.
func (h *Handler) ListFacets(c *gin.Context) {
	facets, err := h.CatalogService.ListFacets(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, facets)
}
