package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrCategoryInUse       = errors.New("category still has paintings")
	ErrPaintingUnavailable = errors.New("painting is not available")
	ErrImageInUse          = errors.New("image is still referenced")
	ErrImageNotFound       = errors.New("image not found")
)

// ValidationError reports a client mistake in a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Message: err.Error()}
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
