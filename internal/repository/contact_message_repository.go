package repository

import (
	"errors"
	"time"

	"github.com/elwarcha/gallery/internal/models"

	"gorm.io/gorm"
)

// ContactMessageRepository stores messages from the contact form.
type ContactMessageRepository interface {
	Create(message *models.ContactMessage) error
	GetByID(id uint) (*models.ContactMessage, error)
	List(filter ContactMessageListFilter) ([]models.ContactMessage, int64, error)
	MarkRead(id uint, at time.Time) (bool, error)
	Delete(id uint) (bool, error)
}

type GormContactMessageRepository struct {
	db *gorm.DB
}

func NewContactMessageRepository(db *gorm.DB) *GormContactMessageRepository {
	return &GormContactMessageRepository{db: db}
}

func (r *GormContactMessageRepository) Create(message *models.ContactMessage) error {
	return r.db.Create(message).Error
}

// GetByID returns nil, nil when the message does not exist.
func (r *GormContactMessageRepository) GetByID(id uint) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := r.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// List returns the newest messages first.
func (r *GormContactMessageRepository) List(filter ContactMessageListFilter) ([]models.ContactMessage, int64, error) {
	query := r.db.Model(&models.ContactMessage{})
	if filter.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var messages []models.ContactMessage
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead stamps read_at and reports whether the message exists.
func (r *GormContactMessageRepository) MarkRead(id uint, at time.Time) (bool, error) {
	result := r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("read_at", at)
	return result.RowsAffected > 0, result.Error
}

func (r *GormContactMessageRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.ContactMessage{}, id)
	return result.RowsAffected > 0, result.Error
}
