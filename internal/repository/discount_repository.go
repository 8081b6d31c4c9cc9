package repository

import (
	"errors"

	"github.com/elwarcha/gallery/internal/models"

	"gorm.io/gorm"
)

// DiscountRepository provides access to promo codes.
type DiscountRepository interface {
	GetByCode(code string) (*models.DiscountCode, error)
	GetByID(id uint) (*models.DiscountCode, error)
	List(filter DiscountListFilter) ([]models.DiscountCode, int64, error)
	Create(discount *models.DiscountCode) error
	Update(discount *models.DiscountCode) error
	Delete(id uint) error
	CountByCode(code string, excludeID uint) (int64, error)
	CountOrders(ids []uint) (map[uint]int64, error)
}

type GormDiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// GetByCode matches the stored upper-case code; nil, nil when absent.
func (r *GormDiscountRepository) GetByCode(code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	if err := r.db.Where("code = ?", code).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

func (r *GormDiscountRepository) GetByID(id uint) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	if err := r.db.First(&discount, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

func (r *GormDiscountRepository) List(filter DiscountListFilter) ([]models.DiscountCode, int64, error) {
	query := r.db.Model(&models.DiscountCode{})
	if filter.Search != "" {
		cond, n := buildLikeCondition(r.db, "code")
		query = query.Where(cond, repeatLikeArgs(likePattern(filter.Search), n)...)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var discounts []models.DiscountCode
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&discounts).Error; err != nil {
		return nil, 0, err
	}
	return discounts, total, nil
}

func (r *GormDiscountRepository) Create(discount *models.DiscountCode) error {
	return r.db.Create(discount).Error
}

func (r *GormDiscountRepository) Update(discount *models.DiscountCode) error {
	return r.db.Save(discount).Error
}

func (r *GormDiscountRepository) Delete(id uint) error {
	return r.db.Delete(&models.DiscountCode{}, id).Error
}

// CountByCode counts other codes with the same value, for the uniqueness check.
func (r *GormDiscountRepository) CountByCode(code string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.DiscountCode{}).Where("code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountOrders returns, per discount id, how many orders used it.
func (r *GormDiscountRepository) CountOrders(ids []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []struct {
		DiscountCodeID uint
		Total          int64
	}
	err := r.db.Model(&models.Order{}).
		Select("discount_code_id, COUNT(*) AS total").
		Where("discount_code_id IN ?", ids).
		Group("discount_code_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.DiscountCodeID] = row.Total
	}
	return result, nil
}
