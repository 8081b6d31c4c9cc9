package service

import (
	"context"
	"strings"
	"time"

	"github.com/elwarcha/gallery/internal/cache"
	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"
)

const (
	defaultCatalogPageSize = 60
	facetsCacheKey         = "catalog:facets"
)

// PaintingFilterInput is the public catalog query. Unknown or malformed
// values invalidate the whole set.
type PaintingFilterInput struct {
	Q           string `form:"q" json:"q" validate:"omitempty,min=1,max=100"`
	ArtistID    uint   `form:"artist" json:"artist"`
	StyleID     uint   `form:"style" json:"style"`
	TechniqueID uint   `form:"technique" json:"technique"`
	MinPrice    *int64 `form:"minPrice" json:"minPrice" validate:"omitempty,gte=0,lte=1000000"`
	MaxPrice    *int64 `form:"maxPrice" json:"maxPrice" validate:"omitempty,gte=0,lte=1000000"`
	MinWidth    *int   `form:"minWidth" json:"minWidth" validate:"omitempty,gte=1,lte=1000"`
	MaxWidth    *int   `form:"maxWidth" json:"maxWidth" validate:"omitempty,gte=1,lte=1000"`
	MinHeight   *int   `form:"minHeight" json:"minHeight" validate:"omitempty,gte=1,lte=1000"`
	MaxHeight   *int   `form:"maxHeight" json:"maxHeight" validate:"omitempty,gte=1,lte=1000"`
	Kind        string `form:"kind" json:"kind" validate:"omitempty,oneof=UNIQUE RECREATABLE"`
	Page        int    `form:"page" json:"page"`

	// Malformed marks a query string that could not be parsed at all.
	Malformed bool `form:"-" json:"-"`
}

// Valid reports whether the filter set is usable as a whole.
func (f PaintingFilterInput) Valid() bool {
	if f.Malformed {
		return false
	}
	if validateStruct(f, nil) != nil {
		return false
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return false
	}
	if f.MinWidth != nil && f.MaxWidth != nil && *f.MinWidth > *f.MaxWidth {
		return false
	}
	if f.MinHeight != nil && f.MaxHeight != nil && *f.MinHeight > *f.MaxHeight {
		return false
	}
	return true
}

// PaintingPage is one page of the public catalog.
type PaintingPage struct {
	Items          []models.Painting `json:"items"`
	Total          int64             `json:"total"`
	Page           int               `json:"page"`
	PageSize       int               `json:"page_size"`
	FiltersApplied bool              `json:"filters_applied"`
}

// Facets lists the taxonomy used by catalog filters.
type Facets struct {
	Artists    []models.Artist    `json:"artists"`
	Styles     []models.Style     `json:"styles"`
	Techniques []models.Technique `json:"techniques"`
}

// CatalogService serves public painting reads.
type CatalogService struct {
	paintingRepo repository.PaintingRepository
	taxonomyRepo repository.TaxonomyRepository
	cache        *cache.Store
	pageSize     int
	facetTTL     time.Duration
	retry        models.RetryPolicy
}

// NewCatalogService creates the catalog service. A nil or disabled cache
// reads facets from the database every time.
func NewCatalogService(
	paintingRepo repository.PaintingRepository,
	taxonomyRepo repository.TaxonomyRepository,
	store *cache.Store,
	cfg config.CatalogConfig,
	retry models.RetryPolicy,
) *CatalogService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultCatalogPageSize
	}
	return &CatalogService{
		paintingRepo: paintingRepo,
		taxonomyRepo: taxonomyRepo,
		cache:        store,
		pageSize:     pageSize,
		facetTTL:     time.Duration(cfg.FacetTTLSeconds) * time.Second,
		retry:        retry,
	}
}

// ListPaintings returns the newest paintings matching input. An invalid
// filter set is dropped and the unfiltered catalog is returned.
func (s *CatalogService) ListPaintings(ctx context.Context, input PaintingFilterInput) (*PaintingPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	filter := repository.PaintingListFilter{Page: page, PageSize: s.pageSize}
	input.Q = strings.TrimSpace(input.Q)
	applied := input.Valid()
	if applied {
		filter.Search = input.Q
		filter.ArtistID = input.ArtistID
		filter.StyleID = input.StyleID
		filter.TechniqueID = input.TechniqueID
		filter.Kind = input.Kind
		filter.MinPrice = input.MinPrice
		filter.MaxPrice = input.MaxPrice
		filter.MinWidth = input.MinWidth
		filter.MaxWidth = input.MaxWidth
		filter.MinHeight = input.MinHeight
		filter.MaxHeight = input.MaxHeight
	} else {
		logger.Debugw("catalog_filters_discarded", "q", input.Q, "kind", input.Kind)
	}

	var (
		items []models.Painting
		total int64
	)
	err := s.retry.Do(ctx, func() error {
		var err error
		items, total, err = s.paintingRepo.List(filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Painting{}
	}
	return &PaintingPage{
		Items:          items,
		Total:          total,
		Page:           page,
		PageSize:       s.pageSize,
		FiltersApplied: applied,
	}, nil
}

// GetPainting returns one painting with taxonomy, images and options.
func (s *CatalogService) GetPainting(ctx context.Context, id uint) (*models.Painting, error) {
	var painting *models.Painting
	err := s.retry.Do(ctx, func() error {
		var err error
		painting, err = s.paintingRepo.GetDetail(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if painting == nil {
		return nil, ErrNotFound
	}
	return painting, nil
}

// ListFacets returns artists, styles and techniques, cached when redis is on.
func (s *CatalogService) ListFacets(ctx context.Context) (*Facets, error) {
	if s.cache.Enabled() {
		var cached Facets
		hit, err := s.cache.GetJSON(ctx, facetsCacheKey, &cached)
		if err != nil {
			logger.Warnw("catalog_facets_cache_read_failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	facets := &Facets{}
	err := s.retry.Do(ctx, func() error {
		var err error
		if facets.Artists, err = s.taxonomyRepo.ListArtists(); err != nil {
			return err
		}
		if facets.Styles, err = s.taxonomyRepo.ListStyles(); err != nil {
			return err
		}
		facets.Techniques, err = s.taxonomyRepo.ListTechniques()
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() && s.facetTTL > 0 {
		if err := s.cache.SetJSON(ctx, facetsCacheKey, facets, s.facetTTL); err != nil {
			logger.Warnw("catalog_facets_cache_write_failed", "error", err)
		}
	}
	return facets, nil
}

// InvalidateFacets drops the cached facets after a taxonomy change.
func (s *CatalogService) InvalidateFacets(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Del(ctx, facetsCacheKey); err != nil {
		logger.Warnw("catalog_facets_cache_invalidate_failed", "error", err)
	}
}
