package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyAssigned     = errors.New("service already assigned")
	ErrConflict            = errors.New("concurrent update conflict")
	ErrAlreadyPaid         = errors.New("challan already paid")
	ErrUpstreamUnavailable = errors.New("violation data provider unavailable")
)

// ValidationError reports malformed or missing input. Nothing is mutated
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientCreditsError carries the numbers the caller needs to resolve
// the failure: how much the batch costs and how much is available.
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, available %d", e.Required, e.Available)
}
