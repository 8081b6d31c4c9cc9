package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps an input field (json name) to its French messages.
type FieldErrors map[string][]string

// Add appends msg to field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Fields returns the field names in a stable order.
func (f FieldErrors) Fields() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields.Fields(), ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(fields FieldErrors) error {
	return &ValidationError{Fields: fields}
}

// FieldErrorsOf extracts field messages from err, nil when err is not a validation error.
func FieldErrorsOf(err error) FieldErrors {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

var (
	validate          = newValidator()
	discountCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("discountcode", func(fl validator.FieldLevel) bool {
		return discountCodeRegex.MatchString(fl.Field().String())
	})
	return v
}

// fieldMessage overrides the generic message of one (field, tag) pair.
type fieldMessage map[string]string

func overrideKey(field, tag string) string {
	return field + "." + tag
}

// validateStruct runs validator tags on input and translates failures.
func validateStruct(input interface{}, overrides fieldMessage) FieldErrors {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": {"Données invalides"}}
	}
	fields := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := overrides[overrideKey(field, fe.Tag())]; ok {
			fields.Add(field, msg)
			continue
		}
		fields.Add(field, frenchMessage(fe))
	}
	return fields
}

func frenchMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Champ requis"
	case "email":
		return "Email invalide"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Trop court (min %s caractères)", fe.Param())
		}
		return fmt.Sprintf("Doit être au moins %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Trop long (max %s caractères)", fe.Param())
		}
		return fmt.Sprintf("Doit être au plus %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Doit être au moins %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Doit être au plus %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Doit être supérieur à %s", fe.Param())
	case "oneof":
		return "Valeur non autorisée"
	case "discountcode":
		return "Code invalide"
	default:
		return "Valeur invalide"
	}
}
