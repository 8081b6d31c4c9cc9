package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrOptionNotFound     = errors.New("recreation option not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAuthRequired       = errors.New("authentication required")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
	ErrPaintingInUse      = errors.New("painting referenced by orders")
	ErrDiscountExists     = errors.New("discount code already exists")
	ErrDiscountRange      = errors.New("discount end before start")
	ErrDiscountInUse      = errors.New("discount referenced by orders")
	ErrNameExists         = errors.New("name already exists")
	ErrTaxonomyInUse      = errors.New("taxonomy referenced by paintings")
	ErrWrongPassword      = errors.New("current password mismatch")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
