package domain

import (
	"errors"
	"fmt"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidListing   = errors.New("invalid listing")
	ErrCatalogNotLoaded = errors.New("catalog is not loaded")
)

// ValidationError описывает проблему с конкретным полем объявления.
// errors.Is(err, ErrInvalidListing) для нее всегда true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid listing: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidListing
}

// NewValidationError - короткий конструктор
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
