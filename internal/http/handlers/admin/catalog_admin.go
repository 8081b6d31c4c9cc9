package admin

import (
	"context"
	"strings"

	"github.com/elwarcha/gallery/internal/http/handlers/shared"
	"github.com/elwarcha/gallery/internal/http/response"
	"github.com/elwarcha/gallery/internal/repository"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminPaintingsQuery filters the back-office painting list.
type AdminPaintingsQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Kind     string `form:"kind"`
	ArtistID uint   `form:"artist_id"`
}

// GetAdminPaintings lists paintings, available or not.
func (h *Handler) GetAdminPaintings(c *gin.Context) {
	var query AdminPaintingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondInvalidInput(c)
		return
	}
	page, pageSize := normalizePagination(query.Page, query.PageSize)
	items, total, err := h.CatalogAdminService.ListPaintings(c.Request.Context(), repository.PaintingListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(query.Search),
		Kind:     strings.ToUpper(strings.TrimSpace(query.Kind)),
		ArtistID: query.ArtistID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// CreateAdminPainting creates a painting with its images and options.
func (h *Handler) CreateAdminPainting(c *gin.Context) {
	var req service.PaintingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c)
		return
	}
	painting, err := h.CatalogAdminService.CreatePainting(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_painting_created", "painting_id", painting.ID)
	response.Success(c, painting)
}

// UpdateAdminPainting replaces a painting's fields. Omitted images or
// options are kept.
func (h *Handler) UpdateAdminPainting(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req service.PaintingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c)
		return
	}
	painting, err := h.CatalogAdminService.UpdatePainting(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, painting)
}

// DeleteAdminPainting deletes a painting no order references.
func (h *Handler) DeleteAdminPainting(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := h.CatalogAdminService.DeletePainting(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_painting_deleted", "painting_id", id)
	response.Success(c, nil)
}

// CreateAdminArtist creates an artist.
func (h *Handler) CreateAdminArtist(c *gin.Context) {
	h.createTaxonomy(c, func(input service.TaxonomyInput) (interface{}, error) {
		return h.CatalogAdminService.CreateArtist(c.Request.Context(), input)
	})
}

// CreateAdminStyle creates a style.
func (h *Handler) CreateAdminStyle(c *gin.Context) {
	h.createTaxonomy(c, func(input service.TaxonomyInput) (interface{}, error) {
		return h.CatalogAdminService.CreateStyle(c.Request.Context(), input)
	})
}

// CreateAdminTechnique creates a technique.
func (h *Handler) CreateAdminTechnique(c *gin.Context) {
	h.createTaxonomy(c, func(input service.TaxonomyInput) (interface{}, error) {
		return h.CatalogAdminService.CreateTechnique(c.Request.Context(), input)
	})
}

// DeleteAdminPaintingImage removes one image of a painting.
func (h *Handler) DeleteAdminPaintingImage(c *gin.Context) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	imageID, ok := shared.ParamUint(c, "imageId")
	if !ok {
		return
	}
	if err := h.CatalogAdminService.DeletePaintingImage(c.Request.Context(), id, imageID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) UpdateAdminArtist(c *gin.Context) {
	h.updateTaxonomy(c, func(id uint, input service.TaxonomyInput) (interface{}, error) {
		return h.CatalogAdminService.UpdateArtist(c.Request.Context(), id, input)
	})
}

func (h *Handler) UpdateAdminStyle(c *gin.Context) {
	h.updateTaxonomy(c, func(id uint, input service.TaxonomyInput) (interface{}, error) {
		return h.CatalogAdminService.UpdateStyle(c.Request.Context(), id, input)
	})
}

func (h *Handler) UpdateAdminTechnique(c *gin.Context) {
	h.updateTaxonomy(c, func(id uint, input service.TaxonomyInput) (interface{}, error) {
		return h.CatalogAdminService.UpdateTechnique(c.Request.Context(), id, input)
	})
}

// DeleteAdminArtist deletes an artist no painting is credited to.
func (h *Handler) DeleteAdminArtist(c *gin.Context) {
	h.deleteTaxonomy(c, h.CatalogAdminService.DeleteArtist)
}

func (h *Handler) DeleteAdminStyle(c *gin.Context) {
	h.deleteTaxonomy(c, h.CatalogAdminService.DeleteStyle)
}

func (h *Handler) DeleteAdminTechnique(c *gin.Context) {
	h.deleteTaxonomy(c, h.CatalogAdminService.DeleteTechnique)
}

// GetAdminFacets lists every artist, style and technique.
func (h *Handler) GetAdminFacets(c *gin.Context) {
	facets, err := h.CatalogService.ListFacets(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, facets)
}

func (h *Handler) createTaxonomy(c *gin.Context, create func(service.TaxonomyInput) (interface{}, error)) {
	var req service.TaxonomyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c)
		return
	}
	created, err := create(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, created)
}

func (h *Handler) updateTaxonomy(c *gin.Context, update func(uint, service.TaxonomyInput) (interface{}, error)) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req service.TaxonomyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c)
		return
	}
	updated, err := update(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, updated)
}

func (h *Handler) deleteTaxonomy(c *gin.Context, remove func(context.Context, uint) error) {
	id, ok := shared.ParamUint(c, "id")
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
