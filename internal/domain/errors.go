package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline error classification.
// Components wrap these so callers can branch on the category without
// depending on storage or extraction details.
//
//	return fmt.Errorf("lifecycle: action %d: %w", id, domain.ErrNotFound)
var (
	// ErrNotFound indicates the action record does not exist or does not
	// belong to the requesting owner.
	ErrNotFound = errors.New("action not found")

	// ErrValidation indicates a required parameter is missing or malformed,
	// or that the domain store rejected the write.
	ErrValidation = errors.New("validation failed")

	// ErrStateError is the category shared by every lifecycle violation.
	ErrStateError = errors.New("invalid action state")

	// ErrInvalidTransition indicates the requested status does not follow
	// the lifecycle diagram, or another writer moved the record first.
	ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", ErrStateError)

	// ErrInvalidState indicates a decision was made on a record that is no
	// longer awaiting one.
	ErrInvalidState = fmt.Errorf("action is not awaiting a decision: %w", ErrStateError)
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
