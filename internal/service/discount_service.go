package service

import (
	"context"
	"strings"
	"time"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/metrics"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"
)

// ResolvedDiscount is a discount code with its derived status.
type ResolvedDiscount struct {
	ID             uint       `json:"id"`
	Code           string     `json:"code"`
	Percent        int        `json:"percent"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	Status         string     `json:"status"`
	UsageCount     int64      `json:"usage_count"`
	AppliedPercent int        `json:"applied_percent"`
}

// DiscountValidation is the outcome of checking a code at checkout.
type DiscountValidation struct {
	Valid    bool              `json:"valid"`
	Percent  int               `json:"percent,omitempty"`
	Reason   string            `json:"reason,omitempty"`
	Discount *ResolvedDiscount `json:"discount,omitempty"`
}

// ResolveDiscountStatus derives the status of a code window at now.
// Both bounds are optional.
func ResolveDiscountStatus(now time.Time, startsAt, endsAt *time.Time) string {
	if startsAt != nil && now.Before(*startsAt) {
		return constants.DiscountStatusFuture
	}
	if endsAt != nil && now.After(*endsAt) {
		return constants.DiscountStatusExpired
	}
	return constants.DiscountStatusActive
}

// NormalizeDiscountCode trims and upper-cases a code.
func NormalizeDiscountCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountService resolves promo codes.
type DiscountService struct {
	repo    repository.DiscountRepository
	retry   models.RetryPolicy
	now     func() time.Time
	metrics *metrics.Business
}

// NewDiscountService creates the discount resolver.
func NewDiscountService(repo repository.DiscountRepository, retry models.RetryPolicy) *DiscountService {
	return &DiscountService{repo: repo, retry: retry, now: time.Now}
}

// SetMetrics attaches business counters.
func (s *DiscountService) SetMetrics(m *metrics.Business) {
	s.metrics = m
}

// GetResolvedDiscount looks a code up; nil, nil when it does not exist.
func (s *DiscountService) GetResolvedDiscount(ctx context.Context, code string) (*ResolvedDiscount, error) {
	code = NormalizeDiscountCode(code)
	if code == "" {
		return nil, nil
	}
	var resolved *ResolvedDiscount
	err := s.retry.Do(ctx, func() error {
		discount, err := s.repo.GetByCode(code)
		if err != nil || discount == nil {
			resolved = nil
			return err
		}
		usage, err := s.repo.CountOrders([]uint{discount.ID})
		if err != nil {
			return err
		}
		resolved = s.resolve(discount, usage[discount.ID])
		return nil
	})
	return resolved, err
}

// ValidateDiscount reports whether code can be applied now. Only ACTIVE codes are valid;
// otherwise Reason carries the status, or NOT_FOUND.
func (s *DiscountService) ValidateDiscount(ctx context.Context, code string) (*DiscountValidation, error) {
	resolved, err := s.GetResolvedDiscount(ctx, code)
	if err != nil {
		return nil, err
	}
	var result *DiscountValidation
	switch {
	case resolved == nil:
		result = &DiscountValidation{Reason: constants.DiscountStatusNotFound}
	case resolved.Status != constants.DiscountStatusActive:
		result = &DiscountValidation{Reason: resolved.Status, Discount: resolved}
	default:
		result = &DiscountValidation{Valid: true, Percent: resolved.Percent, Discount: resolved}
	}
	if result.Valid {
		s.metrics.DiscountValidated("valid")
	} else {
		s.metrics.DiscountValidated(result.Reason)
	}
	return result, nil
}

func (s *DiscountService) resolve(discount *models.DiscountCode, usage int64) *ResolvedDiscount {
	status := ResolveDiscountStatus(s.now(), discount.StartsAt, discount.EndsAt)
	applied := 0
	if status == constants.DiscountStatusActive {
		applied = discount.Percent
	}
	return &ResolvedDiscount{
		ID:             discount.ID,
		Code:           discount.Code,
		Percent:        discount.Percent,
		StartsAt:       discount.StartsAt,
		EndsAt:         discount.EndsAt,
		Status:         status,
		UsageCount:     usage,
		AppliedPercent: applied,
	}
}
