package models

import (
	"errors"
	"fmt"
	"strings"
)

// Domain sentinels. Handlers map these onto HTTP statuses; services wrap them
// with fmt.Errorf("%w") when adding context.
var (
	// Booking / availability
	ErrSlotTaken       = errors.New("slot already taken")
	ErrClosed          = errors.New("space is closed for the requested time")
	ErrBookingNotFound = errors.New("booking not found")

	// Check-in gates
	ErrWrongSpace       = errors.New("booking belongs to another space")
	ErrAlreadyRedeemed  = errors.New("booking already redeemed")
	ErrBookingCancelled = errors.New("booking was cancelled")

	// State machine
	ErrAlreadyFinalized = errors.New("booking already finalized")

	// Spaces / authorization
	ErrSpaceNotFound = errors.New("space not found")
	ErrForbidden     = errors.New("not allowed")

	// Reviews
	ErrReviewExists      = errors.New("booking already reviewed")
	ErrBookingNotableYet = errors.New("booking is not completed yet")
)

// ValidationError carries per-field messages for input rejected before any
// store access.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
