package repository

import (
	"errors"

	"github.com/elwarcha/gallery/internal/models"

	"gorm.io/gorm"
)

// PaintingRepository provides catalog reads and admin writes.
type PaintingRepository interface {
	GetByID(id uint) (*models.Painting, error)
	GetDetail(id uint) (*models.Painting, error)
	ListByIDs(ids []uint) ([]models.Painting, error)
	List(filter PaintingListFilter) ([]models.Painting, int64, error)
	FindOption(paintingID uint, widthCm, heightCm int) (*models.RecreationOption, error)
	FirstImages(paintingIDs []uint) (map[uint]models.PaintingImage, error)
	Create(painting *models.Painting) error
	Update(painting *models.Painting) error
	ReplaceImages(paintingID uint, images []models.PaintingImage) error
	ListImages(paintingID uint) ([]models.PaintingImage, error)
	DeleteImage(paintingID, imageID uint) (bool, error)
	UpdateImagePosition(imageID uint, position int) error
	ReplaceOptions(paintingID uint, options []models.RecreationOption) error
	CountOrderItems(paintingID uint) (int64, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) PaintingRepository
}

// GormPaintingRepository is the gorm implementation.
type GormPaintingRepository struct {
	db *gorm.DB
}

func NewPaintingRepository(db *gorm.DB) *GormPaintingRepository {
	return &GormPaintingRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPaintingRepository) WithTx(tx *gorm.DB) PaintingRepository {
	if tx == nil {
		return r
	}
	return &GormPaintingRepository{db: tx}
}

// GetByID returns the bare painting row, nil, nil when absent.
func (r *GormPaintingRepository) GetByID(id uint) (*models.Painting, error) {
	var painting models.Painting
	if err := r.db.First(&painting, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &painting, nil
}

// GetDetail loads the painting with taxonomy, ordered images and options.
func (r *GormPaintingRepository) GetDetail(id uint) (*models.Painting, error) {
	var painting models.Painting
	err := r.withDetail(r.db).First(&painting, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &painting, nil
}

func (r *GormPaintingRepository) withDetail(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Artist").
		Preload("Style").
		Preload("Technique").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("RecreationOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("width_cm ASC, height_cm ASC")
		})
}

// ListByIDs loads paintings with their recreation options, for cart pricing.
func (r *GormPaintingRepository) ListByIDs(ids []uint) ([]models.Painting, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var paintings []models.Painting
	if err := r.db.Preload("RecreationOptions").Where("id IN ?", ids).Find(&paintings).Error; err != nil {
		return nil, err
	}
	return paintings, nil
}

// List returns a page of paintings, newest first, with their first image.
func (r *GormPaintingRepository) List(filter PaintingListFilter) ([]models.Painting, int64, error) {
	query := r.db.Model(&models.Painting{})

	if filter.Search != "" {
		cond, n := buildLikeCondition(r.db, "paintings.title", "paintings.description")
		query = query.Where(cond, repeatLikeArgs(likePattern(filter.Search), n)...)
	}
	if filter.ArtistID != 0 {
		query = query.Where("artist_id = ?", filter.ArtistID)
	}
	if filter.StyleID != 0 {
		query = query.Where("style_id = ?", filter.StyleID)
	}
	if filter.TechniqueID != 0 {
		query = query.Where("technique_id = ?", filter.TechniqueID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.MinPrice != nil {
		query = query.Where("price_mad >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price_mad <= ?", *filter.MaxPrice)
	}
	if filter.MinWidth != nil {
		query = query.Where("width_cm >= ?", *filter.MinWidth)
	}
	if filter.MaxWidth != nil {
		query = query.Where("width_cm <= ?", *filter.MaxWidth)
	}
	if filter.MinHeight != nil {
		query = query.Where("height_cm >= ?", *filter.MinHeight)
	}
	if filter.MaxHeight != nil {
		query = query.Where("height_cm <= ?", *filter.MaxHeight)
	}
	if filter.OnlyAvailable {
		query = query.Where("available = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var paintings []models.Painting
	query = applyPagination(query, filter.Page, filter.PageSize)
	err := query.
		Preload("Artist").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&paintings).Error
	if err != nil {
		return nil, 0, err
	}
	return paintings, total, nil
}

// FindOption returns the recreation option matching the exact size, nil, nil when none.
func (r *GormPaintingRepository) FindOption(paintingID uint, widthCm, heightCm int) (*models.RecreationOption, error) {
	var option models.RecreationOption
	err := r.db.
		Where("painting_id = ? AND width_cm = ? AND height_cm = ?", paintingID, widthCm, heightCm).
		First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

// FirstImages returns the lowest-position image per painting.
func (r *GormPaintingRepository) FirstImages(paintingIDs []uint) (map[uint]models.PaintingImage, error) {
	result := make(map[uint]models.PaintingImage, len(paintingIDs))
	if len(paintingIDs) == 0 {
		return result, nil
	}
	var images []models.PaintingImage
	err := r.db.
		Where("painting_id IN ?", paintingIDs).
		Order("painting_id ASC, position ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, image := range images {
		if _, ok := result[image.PaintingID]; !ok {
			result[image.PaintingID] = image
		}
	}
	return result, nil
}

// Create inserts the painting row only. Available=false is written in a
// second statement since gorm skips zero values that carry a column default.
func (r *GormPaintingRepository) Create(painting *models.Painting) error {
	available := painting.Available
	if err := r.db.Omit("Artist", "Style", "Technique", "Images", "RecreationOptions").Create(painting).Error; err != nil {
		return err
	}
	if available {
		return nil
	}
	painting.Available = false
	return r.db.Model(&models.Painting{}).Where("id = ?", painting.ID).Update("available", false).Error
}

func (r *GormPaintingRepository) Update(painting *models.Painting) error {
	return r.db.Omit("Artist", "Style", "Technique", "Images", "RecreationOptions").Save(painting).Error
}

// ReplaceImages swaps the image set, keeping the given order as positions.
func (r *GormPaintingRepository) ReplaceImages(paintingID uint, images []models.PaintingImage) error {
	if err := r.db.Where("painting_id = ?", paintingID).Delete(&models.PaintingImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ID = 0
		images[i].PaintingID = paintingID
		images[i].Position = i
	}
	return r.db.Create(&images).Error
}

// ListImages returns the images of a painting by ascending position.
func (r *GormPaintingRepository) ListImages(paintingID uint) ([]models.PaintingImage, error) {
	var images []models.PaintingImage
	err := r.db.Where("painting_id = ?", paintingID).Order("position ASC, id ASC").Find(&images).Error
	return images, err
}

// DeleteImage removes one image of the painting and reports whether it existed.
func (r *GormPaintingRepository) DeleteImage(paintingID, imageID uint) (bool, error) {
	result := r.db.Where("id = ? AND painting_id = ?", imageID, paintingID).Delete(&models.PaintingImage{})
	return result.RowsAffected > 0, result.Error
}

func (r *GormPaintingRepository) UpdateImagePosition(imageID uint, position int) error {
	return r.db.Model(&models.PaintingImage{}).Where("id = ?", imageID).Update("position", position).Error
}

// ReplaceOptions swaps the recreation options of a painting.
func (r *GormPaintingRepository) ReplaceOptions(paintingID uint, options []models.RecreationOption) error {
	if err := r.db.Where("painting_id = ?", paintingID).Delete(&models.RecreationOption{}).Error; err != nil {
		return err
	}
	if len(options) == 0 {
		return nil
	}
	for i := range options {
		options[i].ID = 0
		options[i].PaintingID = paintingID
	}
	return r.db.Create(&options).Error
}

// CountOrderItems counts order lines referencing the painting.
func (r *GormPaintingRepository) CountOrderItems(paintingID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).Where("painting_id = ?", paintingID).Count(&count).Error
	return count, err
}

// Delete removes the painting with its images, options and cart lines.
func (r *GormPaintingRepository) Delete(id uint) error {
	if err := r.db.Where("painting_id = ?", id).Delete(&models.PaintingImage{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("painting_id = ?", id).Delete(&models.RecreationOption{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("painting_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Painting{}, id).Error
}
