package repository

import (
	"errors"
	"fmt"

	"github.com/elwarcha/gallery/internal/models"

	"gorm.io/gorm"
)

// TaxonomyRepository manages artists, styles and techniques.
type TaxonomyRepository interface {
	ListArtists() ([]models.Artist, error)
	ListStyles() ([]models.Style, error)
	ListTechniques() ([]models.Technique, error)
	CreateArtist(artist *models.Artist) error
	CreateStyle(style *models.Style) error
	CreateTechnique(technique *models.Technique) error
	CountArtistsByName(name string) (int64, error)
	CountStylesByName(name string) (int64, error)
	CountTechniquesByName(name string) (int64, error)
	ArtistExists(id uint) (bool, error)
	StyleExists(id uint) (bool, error)
	TechniqueExists(id uint) (bool, error)
	GetArtist(id uint) (*models.Artist, error)
	GetStyle(id uint) (*models.Style, error)
	GetTechnique(id uint) (*models.Technique, error)
	Save(entry interface{}) error
	Delete(model interface{}, id uint) error
	CountOtherByName(model interface{}, name string, excludeID uint) (int64, error)
	CountPaintingsUsing(column string, id uint) (int64, error)
	WithTx(tx *gorm.DB) TaxonomyRepository
}

type GormTaxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *GormTaxonomyRepository {
	return &GormTaxonomyRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormTaxonomyRepository) WithTx(tx *gorm.DB) TaxonomyRepository {
	if tx == nil {
		return r
	}
	return &GormTaxonomyRepository{db: tx}
}

func (r *GormTaxonomyRepository) ListArtists() ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.Order("name ASC").Find(&artists).Error
	return artists, err
}

func (r *GormTaxonomyRepository) ListStyles() ([]models.Style, error) {
	var styles []models.Style
	err := r.db.Order("name ASC").Find(&styles).Error
	return styles, err
}

func (r *GormTaxonomyRepository) ListTechniques() ([]models.Technique, error) {
	var techniques []models.Technique
	err := r.db.Order("name ASC").Find(&techniques).Error
	return techniques, err
}

func (r *GormTaxonomyRepository) CreateArtist(artist *models.Artist) error {
	return r.db.Create(artist).Error
}

func (r *GormTaxonomyRepository) CreateStyle(style *models.Style) error {
	return r.db.Create(style).Error
}

func (r *GormTaxonomyRepository) CreateTechnique(technique *models.Technique) error {
	return r.db.Create(technique).Error
}

func (r *GormTaxonomyRepository) CountArtistsByName(name string) (int64, error) {
	return r.countByName(&models.Artist{}, name)
}

func (r *GormTaxonomyRepository) CountStylesByName(name string) (int64, error) {
	return r.countByName(&models.Style{}, name)
}

func (r *GormTaxonomyRepository) CountTechniquesByName(name string) (int64, error) {
	return r.countByName(&models.Technique{}, name)
}

func (r *GormTaxonomyRepository) countByName(model interface{}, name string) (int64, error) {
	var count int64
	err := r.db.Model(model).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error
	return count, err
}

func (r *GormTaxonomyRepository) ArtistExists(id uint) (bool, error) {
	return r.exists(&models.Artist{}, id)
}

func (r *GormTaxonomyRepository) StyleExists(id uint) (bool, error) {
	return r.exists(&models.Style{}, id)
}

func (r *GormTaxonomyRepository) TechniqueExists(id uint) (bool, error) {
	return r.exists(&models.Technique{}, id)
}

func (r *GormTaxonomyRepository) exists(model interface{}, id uint) (bool, error) {
	var count int64
	err := r.db.Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormTaxonomyRepository) GetArtist(id uint) (*models.Artist, error) {
	var artist models.Artist
	if err := r.first(&artist, id); err != nil || artist.ID == 0 {
		return nil, err
	}
	return &artist, nil
}

func (r *GormTaxonomyRepository) GetStyle(id uint) (*models.Style, error) {
	var style models.Style
	if err := r.first(&style, id); err != nil || style.ID == 0 {
		return nil, err
	}
	return &style, nil
}

func (r *GormTaxonomyRepository) GetTechnique(id uint) (*models.Technique, error) {
	var technique models.Technique
	if err := r.first(&technique, id); err != nil || technique.ID == 0 {
		return nil, err
	}
	return &technique, nil
}

// first loads dest by id and leaves it zero when the row is absent.
func (r *GormTaxonomyRepository) first(dest interface{}, id uint) error {
	err := r.db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// Save writes an artist, style or technique row.
func (r *GormTaxonomyRepository) Save(entry interface{}) error {
	return r.db.Save(entry).Error
}

func (r *GormTaxonomyRepository) Delete(model interface{}, id uint) error {
	return r.db.Delete(model, id).Error
}

// CountOtherByName counts rows named name, case-insensitively, other than excludeID.
func (r *GormTaxonomyRepository) CountOtherByName(model interface{}, name string, excludeID uint) (int64, error) {
	var count int64
	err := r.db.Model(model).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error
	return count, err
}

var paintingTaxonomyColumns = map[string]struct{}{
	"artist_id":    {},
	"style_id":     {},
	"technique_id": {},
}

// CountPaintingsUsing counts paintings whose column references id.
func (r *GormTaxonomyRepository) CountPaintingsUsing(column string, id uint) (int64, error) {
	if _, ok := paintingTaxonomyColumns[column]; !ok {
		return 0, fmt.Errorf("unknown taxonomy column %q", column)
	}
	var count int64
	err := r.db.Model(&models.Painting{}).Where(column+" = ?", id).Count(&count).Error
	return count, err
}
