package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"

	"gorm.io/gorm"
)

// PaintingImageInput is one image of the admin painting form.
type PaintingImageInput struct {
	URL string `json:"url" validate:"required,max=500"`
	Alt string `json:"alt" validate:"max=200"`
}

// RecreationOptionInput is one size offered for a recreatable painting.
type RecreationOptionInput struct {
	WidthCm  int   `json:"width_cm" validate:"gte=1,lte=1000"`
	HeightCm int   `json:"height_cm" validate:"gte=1,lte=1000"`
	PriceMAD int64 `json:"price_mad" validate:"gte=0"`
}

// PaintingInput is the admin create/update form. Nil Images or
// RecreationOptions leave the stored set untouched on update.
type PaintingInput struct {
	Title             string                  `json:"title" validate:"required,min=1,max=200"`
	Description       string                  `json:"description" validate:"max=2000"`
	Kind              string                  `json:"kind" validate:"required,oneof=UNIQUE RECREATABLE"`
	PriceMAD          int64                   `json:"price_mad" validate:"gte=0"`
	WidthCm           int                     `json:"width_cm" validate:"gte=1"`
	HeightCm          int                     `json:"height_cm" validate:"gte=1"`
	Orientation       string                  `json:"orientation" validate:"required,oneof=PORTRAIT PAYSAGE CARRE AUTRE"`
	Available         *bool                   `json:"available"`
	LeadTimeWeeks     string                  `json:"lead_time_weeks" validate:"max=50"`
	ArtistID          uint                    `json:"artist_id" validate:"required"`
	StyleID           *uint                   `json:"style_id"`
	TechniqueID       *uint                   `json:"technique_id"`
	Images            []PaintingImageInput    `json:"images" validate:"omitempty,max=20,dive"`
	RecreationOptions []RecreationOptionInput `json:"recreation_options" validate:"omitempty,max=30,dive"`
}

// TaxonomyInput creates an artist, style or technique.
type TaxonomyInput struct {
	Name string `json:"name" validate:"required,max=200"`
	Bio  string `json:"bio" validate:"max=2000"`
}

var taxonomyMessages = fieldMessage{
	overrideKey("name", "required"): "Nom requis",
}

// CatalogAdminService manages paintings and taxonomy from the back-office.
type CatalogAdminService struct {
	db           *gorm.DB
	paintingRepo repository.PaintingRepository
	taxonomyRepo repository.TaxonomyRepository
	catalog      *CatalogService
	retry        models.RetryPolicy
}

// NewCatalogAdminService creates the admin catalog service.
func NewCatalogAdminService(
	db *gorm.DB,
	paintingRepo repository.PaintingRepository,
	taxonomyRepo repository.TaxonomyRepository,
	catalog *CatalogService,
	retry models.RetryPolicy,
) *CatalogAdminService {
	return &CatalogAdminService{
		db:           db,
		paintingRepo: paintingRepo,
		taxonomyRepo: taxonomyRepo,
		catalog:      catalog,
		retry:        retry,
	}
}

// ListPaintings returns every painting, unavailable ones included.
func (s *CatalogAdminService) ListPaintings(ctx context.Context, filter repository.PaintingListFilter) ([]models.Painting, int64, error) {
	var (
		items []models.Painting
		total int64
	)
	err := s.retry.Do(ctx, func() error {
		var err error
		items, total, err = s.paintingRepo.List(filter)
		return err
	})
	return items, total, err
}

// CreatePainting stores a painting with its images and options.
func (s *CatalogAdminService) CreatePainting(ctx context.Context, input PaintingInput) (*models.Painting, error) {
	input, err := s.normalizePainting(input)
	if err != nil {
		return nil, err
	}
	painting := &models.Painting{}
	applyPaintingInput(painting, input)

	err = s.retry.Do(ctx, func() error {
		if err := s.checkTaxonomy(input); err != nil {
			return err
		}
		return s.db.Transaction(func(tx *gorm.DB) error {
			repo := s.paintingRepo.WithTx(tx)
			painting.ID = 0
			if err := repo.Create(painting); err != nil {
				return err
			}
			return s.replaceChildren(repo, painting, input)
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("painting_created", "painting_id", painting.ID, "kind", painting.Kind)
	return s.paintingRepo.GetDetail(painting.ID)
}

// UpdatePainting replaces the painting fields and, when given, its images and options.
func (s *CatalogAdminService) UpdatePainting(ctx context.Context, id uint, input PaintingInput) (*models.Painting, error) {
	input, err := s.normalizePainting(input)
	if err != nil {
		return nil, err
	}
	err = s.retry.Do(ctx, func() error {
		if err := s.checkTaxonomy(input); err != nil {
			return err
		}
		return s.db.Transaction(func(tx *gorm.DB) error {
			repo := s.paintingRepo.WithTx(tx)
			painting, err := repo.GetByID(id)
			if err != nil {
				return err
			}
			if painting == nil {
				return ErrNotFound
			}
			applyPaintingInput(painting, input)
			if err := repo.Update(painting); err != nil {
				return err
			}
			return s.replaceChildren(repo, painting, input)
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("painting_updated", "painting_id", id)
	return s.paintingRepo.GetDetail(id)
}

// DeletePainting removes a painting no order line references.
func (s *CatalogAdminService) DeletePainting(ctx context.Context, id uint) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			repo := s.paintingRepo.WithTx(tx)
			painting, err := repo.GetByID(id)
			if err != nil {
				return err
			}
			if painting == nil {
				return ErrNotFound
			}
			count, err := repo.CountOrderItems(id)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrPaintingInUse
			}
			return repo.Delete(id)
		})
	})
	if err != nil {
		return err
	}
	logger.Infow("painting_deleted", "painting_id", id)
	return nil
}

// CreateArtist adds an artist; names are unique case-insensitively.
func (s *CatalogAdminService) CreateArtist(ctx context.Context, input TaxonomyInput) (*models.Artist, error) {
	name, err := normalizeTaxonomyName(input)
	if err != nil {
		return nil, err
	}
	artist := &models.Artist{Name: name, Bio: strings.TrimSpace(input.Bio)}
	err = s.createNamed(ctx, "artist", name, s.taxonomyRepo.CountArtistsByName, func() error {
		return s.taxonomyRepo.CreateArtist(artist)
	})
	if err != nil {
		return nil, err
	}
	return artist, nil
}

func (s *CatalogAdminService) CreateStyle(ctx context.Context, input TaxonomyInput) (*models.Style, error) {
	name, err := normalizeTaxonomyName(input)
	if err != nil {
		return nil, err
	}
	style := &models.Style{Name: name}
	err = s.createNamed(ctx, "style", name, s.taxonomyRepo.CountStylesByName, func() error {
		return s.taxonomyRepo.CreateStyle(style)
	})
	if err != nil {
		return nil, err
	}
	return style, nil
}

func (s *CatalogAdminService) CreateTechnique(ctx context.Context, input TaxonomyInput) (*models.Technique, error) {
	name, err := normalizeTaxonomyName(input)
	if err != nil {
		return nil, err
	}
	technique := &models.Technique{Name: name}
	err = s.createNamed(ctx, "technique", name, s.taxonomyRepo.CountTechniquesByName, func() error {
		return s.taxonomyRepo.CreateTechnique(technique)
	})
	if err != nil {
		return nil, err
	}
	return technique, nil
}

func (s *CatalogAdminService) createNamed(ctx context.Context, kind, name string, count func(string) (int64, error), create func() error) error {
	err := s.retry.Do(ctx, func() error {
		n, err := count(name)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrNameExists
		}
		return create()
	})
	if err != nil {
		return err
	}
	s.catalog.InvalidateFacets(ctx)
	logger.Infow("taxonomy_created", "kind", kind, "name", name)
	return nil
}

// UpdateArtist renames an artist and replaces its bio.
func (s *CatalogAdminService) UpdateArtist(ctx context.Context, id uint, input TaxonomyInput) (*models.Artist, error) {
	name, err := normalizeTaxonomyName(input)
	if err != nil {
		return nil, err
	}
	var artist *models.Artist
	err = s.updateNamed(ctx, "artist", id, name, &models.Artist{}, func(repo repository.TaxonomyRepository) (interface{}, error) {
		found, err := repo.GetArtist(id)
		if err != nil || found == nil {
			return nil, err
		}
		found.Name = name
		found.Bio = strings.TrimSpace(input.Bio)
		artist = found
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return artist, nil
}

func (s *CatalogAdminService) UpdateStyle(ctx context.Context, id uint, input TaxonomyInput) (*models.Style, error) {
	name, err := normalizeTaxonomyName(input)
	if err != nil {
		return nil, err
	}
	var style *models.Style
	err = s.updateNamed(ctx, "style", id, name, &models.Style{}, func(repo repository.TaxonomyRepository) (interface{}, error) {
		found, err := repo.GetStyle(id)
		if err != nil || found == nil {
			return nil, err
		}
		found.Name = name
		style = found
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return style, nil
}

func (s *CatalogAdminService) UpdateTechnique(ctx context.Context, id uint, input TaxonomyInput) (*models.Technique, error) {
	name, err := normalizeTaxonomyName(input)
	if err != nil {
		return nil, err
	}
	var technique *models.Technique
	err = s.updateNamed(ctx, "technique", id, name, &models.Technique{}, func(repo repository.TaxonomyRepository) (interface{}, error) {
		found, err := repo.GetTechnique(id)
		if err != nil || found == nil {
			return nil, err
		}
		found.Name = name
		technique = found
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return technique, nil
}

// updateNamed loads an entry through load, which returns nil when absent,
// and saves it unless another entry of the same kind already has name.
func (s *CatalogAdminService) updateNamed(
	ctx context.Context,
	kind string,
	id uint,
	name string,
	model interface{},
	load func(repository.TaxonomyRepository) (interface{}, error),
) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			repo := s.taxonomyRepo.WithTx(tx)
			entry, err := load(repo)
			if err != nil {
				return err
			}
			if entry == nil {
				return ErrNotFound
			}
			n, err := repo.CountOtherByName(model, name, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrNameExists
			}
			return repo.Save(entry)
		})
	})
	if err != nil {
		return err
	}
	s.catalog.InvalidateFacets(ctx)
	logger.Infow("taxonomy_updated", "kind", kind, "id", id, "name", name)
	return nil
}

// DeleteArtist removes an artist no painting is credited to.
func (s *CatalogAdminService) DeleteArtist(ctx context.Context, id uint) error {
	return s.deleteNamed(ctx, "artist", id, &models.Artist{}, "artist_id")
}

func (s *CatalogAdminService) DeleteStyle(ctx context.Context, id uint) error {
	return s.deleteNamed(ctx, "style", id, &models.Style{}, "style_id")
}

func (s *CatalogAdminService) DeleteTechnique(ctx context.Context, id uint) error {
	return s.deleteNamed(ctx, "technique", id, &models.Technique{}, "technique_id")
}

func (s *CatalogAdminService) deleteNamed(ctx context.Context, kind string, id uint, model interface{}, column string) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			repo := s.taxonomyRepo.WithTx(tx)
			var (
				exists bool
				err    error
			)
			switch column {
			case "artist_id":
				exists, err = repo.ArtistExists(id)
			case "style_id":
				exists, err = repo.StyleExists(id)
			default:
				exists, err = repo.TechniqueExists(id)
			}
			if err != nil {
				return err
			}
			if !exists {
				return ErrNotFound
			}
			used, err := repo.CountPaintingsUsing(column, id)
			if err != nil {
				return err
			}
			if used > 0 {
				return ErrTaxonomyInUse
			}
			return repo.Delete(model, id)
		})
	})
	if err != nil {
		return err
	}
	s.catalog.InvalidateFacets(ctx)
	logger.Infow("taxonomy_deleted", "kind", kind, "id", id)
	return nil
}

// DeletePaintingImage removes one image and renumbers the remaining ones
// from 0 in their current order.
func (s *CatalogAdminService) DeletePaintingImage(ctx context.Context, paintingID, imageID uint) error {
	err := s.retry.Do(ctx, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			repo := s.paintingRepo.WithTx(tx)
			deleted, err := repo.DeleteImage(paintingID, imageID)
			if err != nil {
				return err
			}
			if !deleted {
				return ErrNotFound
			}
			remaining, err := repo.ListImages(paintingID)
			if err != nil {
				return err
			}
			for i, image := range remaining {
				if image.Position == i {
					continue
				}
				if err := repo.UpdateImagePosition(image.ID, i); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	logger.Infow("painting_image_deleted", "painting_id", paintingID, "image_id", imageID)
	return nil
}

func normalizeTaxonomyName(input TaxonomyInput) (string, error) {
	input.Name = strings.TrimSpace(input.Name)
	if fields := validateStruct(input, taxonomyMessages); fields != nil {
		return "", newValidationError(fields)
	}
	return input.Name, nil
}

func (s *CatalogAdminService) normalizePainting(input PaintingInput) (PaintingInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.LeadTimeWeeks = strings.TrimSpace(input.LeadTimeWeeks)
	input.Kind = strings.ToUpper(strings.TrimSpace(input.Kind))
	input.Orientation = strings.ToUpper(strings.TrimSpace(input.Orientation))

	fields := validateStruct(input, nil)
	if fields == nil {
		fields = FieldErrors{}
	}
	seen := make(map[string]struct{}, len(input.RecreationOptions))
	for _, option := range input.RecreationOptions {
		key := fmt.Sprintf("%dx%d", option.WidthCm, option.HeightCm)
		if _, dup := seen[key]; dup {
			fields.Add("recreation_options", "Dimensions en double")
			break
		}
		seen[key] = struct{}{}
	}
	if len(fields) > 0 {
		return input, newValidationError(fields)
	}
	return input, nil
}

// checkTaxonomy verifies referenced artist, style and technique rows exist.
func (s *CatalogAdminService) checkTaxonomy(input PaintingInput) error {
	fields := FieldErrors{}
	check := func(field string, id *uint, exists func(uint) (bool, error)) error {
		if id == nil || *id == 0 {
			return nil
		}
		ok, err := exists(*id)
		if err != nil {
			return err
		}
		if !ok {
			fields.Add(field, "Référence inconnue")
		}
		return nil
	}
	artistID := input.ArtistID
	if err := check("artist_id", &artistID, s.taxonomyRepo.ArtistExists); err != nil {
		return err
	}
	if err := check("style_id", input.StyleID, s.taxonomyRepo.StyleExists); err != nil {
		return err
	}
	if err := check("technique_id", input.TechniqueID, s.taxonomyRepo.TechniqueExists); err != nil {
		return err
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

func (s *CatalogAdminService) replaceChildren(repo repository.PaintingRepository, painting *models.Painting, input PaintingInput) error {
	if input.Images != nil {
		images := make([]models.PaintingImage, 0, len(input.Images))
		for _, img := range input.Images {
			alt := strings.TrimSpace(img.Alt)
			if alt == "" {
				alt = painting.Title
			}
			images = append(images, models.PaintingImage{URL: strings.TrimSpace(img.URL), Alt: alt})
		}
		if err := repo.ReplaceImages(painting.ID, images); err != nil {
			return err
		}
	}
	if input.RecreationOptions != nil {
		options := make([]models.RecreationOption, 0, len(input.RecreationOptions))
		for _, opt := range input.RecreationOptions {
			options = append(options, models.RecreationOption{
				WidthCm:  opt.WidthCm,
				HeightCm: opt.HeightCm,
				PriceMAD: opt.PriceMAD,
			})
		}
		if err := repo.ReplaceOptions(painting.ID, options); err != nil {
			return err
		}
	}
	return nil
}

func applyPaintingInput(painting *models.Painting, input PaintingInput) {
	painting.Title = input.Title
	painting.Description = input.Description
	painting.Kind = input.Kind
	painting.PriceMAD = input.PriceMAD
	painting.WidthCm = input.WidthCm
	painting.HeightCm = input.HeightCm
	painting.Orientation = input.Orientation
	painting.Available = input.Available == nil || *input.Available
	painting.LeadTimeWeeks = input.LeadTimeWeeks
	artistID := input.ArtistID
	painting.ArtistID = &artistID
	painting.StyleID = nonZeroID(input.StyleID)
	painting.TechniqueID = nonZeroID(input.TechniqueID)
}

func nonZeroID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}
