package repository

import (
	"errors"

	"github.com/elwarcha/gallery/internal/models"

	"gorm.io/gorm"
)

// CartRepository provides access to persisted cart lines.
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	GetVariant(userID, paintingID uint, widthCm, heightCm int) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id uint, quantity int) error
	Delete(id uint) error
	ClearByUser(userID uint) (int64, error)
	SumQuantity(userID uint) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository is the gorm implementation.
type GormCartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser returns the user's rows in insertion order.
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetVariant finds the row for one (painting, width, height) variant; nil, nil when absent.
func (r *GormCartRepository) GetVariant(userID, paintingID uint, widthCm, heightCm int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.
		Where("user_id = ? AND painting_id = ? AND width_cm = ? AND height_cm = ?", userID, paintingID, widthCm, heightCm).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) Create(item *models.CartItem) error {
	return r.db.Create(item).Error
}

func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *GormCartRepository) Delete(id uint) error {
	return r.db.Delete(&models.CartItem{}, id).Error
}

// ClearByUser deletes every row of the user and returns the count removed.
func (r *GormCartRepository) ClearByUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// SumQuantity returns the total number of units in the cart.
func (r *GormCartRepository) SumQuantity(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}
