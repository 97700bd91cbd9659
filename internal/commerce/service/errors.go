package service

import "errors"

// Domain error taxonomy. Services return these (wrapped with detail via
// fmt.Errorf %w) so handlers can map them to user-facing responses with
// errors.Is; infrastructure failures pass through unwrapped.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrForbidden              = errors.New("forbidden")
	ErrValidation             = errors.New("validation error")
	ErrQuantityMismatch       = errors.New("quantity mismatch")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrNoApprovedLines        = errors.New("no approved lines")
	ErrGenerationFailed       = errors.New("order generation failed")
)
