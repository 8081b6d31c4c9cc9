package service

import (
	"context"
	"strings"
)

const (
	msgPostalCodeRequired  = "Code postal requis"
	msgDiscountCodeInvalid = "Code promo invalide"
)

// CheckoutInput is the shipping and contact form submitted at checkout.
type CheckoutInput struct {
	FullName     string `json:"fullName" validate:"min=2,max=80"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"min=6,max=30"`
	Address      string `json:"address" validate:"min=5,max=160"`
	City         string `json:"city" validate:"min=2,max=80"`
	PostalCode   string `json:"postalCode" validate:"required"`
	DiscountCode string `json:"discountCode" validate:"omitempty,min=3,max=30"`
}

// ResolvedCheckout is a validated checkout with its discount resolved.
type ResolvedCheckout struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	DiscountCode    string `json:"discountCode,omitempty"`
	DiscountPercent int    `json:"discountPercent,omitempty"`
	DiscountID      *uint  `json:"discountId,omitempty"`
}

var checkoutMessages = fieldMessage{
	overrideKey("postalCode", "required"): msgPostalCodeRequired,
}

// CheckoutService validates checkout forms.
type CheckoutService struct {
	discounts *DiscountService
}

// NewCheckoutService creates the checkout resolver.
func NewCheckoutService(discounts *DiscountService) *CheckoutService {
	return &CheckoutService{discounts: discounts}
}

// ResolveCheckout validates input and resolves its discount code. Field
// failures are returned as a *ValidationError; a code that cannot be applied
// is reported on discountCode alone.
func (s *CheckoutService) ResolveCheckout(ctx context.Context, input CheckoutInput) (*ResolvedCheckout, error) {
	input = trimCheckout(input)
	if fields := validateStruct(input, checkoutMessages); fields != nil {
		return nil, newValidationError(fields)
	}

	resolved := &ResolvedCheckout{
		FullName:   input.FullName,
		Email:      strings.ToLower(input.Email),
		Phone:      NormalizePhone(input.Phone),
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
	}
	if input.DiscountCode == "" {
		return resolved, nil
	}

	code := NormalizeDiscountCode(input.DiscountCode)
	validation, err := s.discounts.ValidateDiscount(ctx, code)
	if err != nil {
		return nil, err
	}
	if !validation.Valid || validation.Discount == nil {
		return nil, newValidationError(FieldErrors{"discountCode": {msgDiscountCodeInvalid}})
	}
	id := validation.Discount.ID
	resolved.DiscountCode = code
	resolved.DiscountPercent = validation.Percent
	resolved.DiscountID = &id
	return resolved, nil
}

func trimCheckout(input CheckoutInput) CheckoutInput {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = strings.TrimSpace(input.Address)
	input.City = strings.TrimSpace(input.City)
	input.PostalCode = strings.TrimSpace(input.PostalCode)
	input.DiscountCode = strings.TrimSpace(input.DiscountCode)
	return input
}
