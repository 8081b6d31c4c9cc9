package service

import (
	"context"
	"time"

	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"
)

// DiscountInput is the admin form of a discount code.
type DiscountInput struct {
	Code     string     `json:"code" validate:"required,min=3,max=30,discountcode"`
	Percent  int        `json:"percent" validate:"required,gte=1,lte=90"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

// DiscountAdminService manages discount codes from the back-office.
type DiscountAdminService struct {
	repo     repository.DiscountRepository
	resolver *DiscountService
	retry    models.RetryPolicy
}

// NewDiscountAdminService creates the admin discount service.
func NewDiscountAdminService(repo repository.DiscountRepository, resolver *DiscountService, retry models.RetryPolicy) *DiscountAdminService {
	return &DiscountAdminService{repo: repo, resolver: resolver, retry: retry}
}

// List returns codes with their derived status and usage count.
func (s *DiscountAdminService) List(ctx context.Context, filter repository.DiscountListFilter) ([]ResolvedDiscount, int64, error) {
	var (
		discounts []models.DiscountCode
		usage     map[uint]int64
		total     int64
	)
	err := s.retry.Do(ctx, func() error {
		var err error
		discounts, total, err = s.repo.List(filter)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(discounts))
		for _, d := range discounts {
			ids = append(ids, d.ID)
		}
		usage, err = s.repo.CountOrders(ids)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	result := make([]ResolvedDiscount, 0, len(discounts))
	for i := range discounts {
		result = append(result, *s.resolver.resolve(&discounts[i], usage[discounts[i].ID]))
	}
	return result, total, nil
}

// Get returns one code by id.
func (s *DiscountAdminService) Get(ctx context.Context, id uint) (*ResolvedDiscount, error) {
	discount, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, ErrNotFound
	}
	usage, err := s.repo.CountOrders([]uint{id})
	if err != nil {
		return nil, err
	}
	return s.resolver.resolve(discount, usage[id]), nil
}

// Create adds a code. The code is stored upper-case.
func (s *DiscountAdminService) Create(ctx context.Context, input DiscountInput) (*models.DiscountCode, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	discount := &models.DiscountCode{
		Code:     input.Code,
		Percent:  input.Percent,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
	}
	err = s.retry.Do(ctx, func() error {
		count, err := s.repo.CountByCode(input.Code, 0)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDiscountExists
		}
		return s.repo.Create(discount)
	})
	if err != nil {
		return nil, err
	}
	return discount, nil
}

// Update replaces every field of the code.
func (s *DiscountAdminService) Update(ctx context.Context, id uint, input DiscountInput) (*models.DiscountCode, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	var discount *models.DiscountCode
	err = s.retry.Do(ctx, func() error {
		var err error
		discount, err = s.repo.GetByID(id)
		if err != nil {
			return err
		}
		if discount == nil {
			return ErrNotFound
		}
		count, err := s.repo.CountByCode(input.Code, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDiscountExists
		}
		discount.Code = input.Code
		discount.Percent = input.Percent
		discount.StartsAt = input.StartsAt
		discount.EndsAt = input.EndsAt
		return s.repo.Update(discount)
	})
	if err != nil {
		return nil, err
	}
	return discount, nil
}

// Delete removes a code that no order references.
func (s *DiscountAdminService) Delete(ctx context.Context, id uint) error {
	return s.retry.Do(ctx, func() error {
		discount, err := s.repo.GetByID(id)
		if err != nil {
			return err
		}
		if discount == nil {
			return ErrNotFound
		}
		usage, err := s.repo.CountOrders([]uint{id})
		if err != nil {
			return err
		}
		if usage[id] > 0 {
			return ErrDiscountInUse
		}
		return s.repo.Delete(id)
	})
}

func (s *DiscountAdminService) normalize(input DiscountInput) (DiscountInput, error) {
	input.Code = NormalizeDiscountCode(input.Code)
	if fields := validateStruct(input, nil); fields != nil {
		return input, newValidationError(fields)
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return input, ErrDiscountRange
	}
	return input, nil
}
