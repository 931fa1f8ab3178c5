package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrDuplicateVote       = errors.New("user has already voted on this content")
	ErrProvider            = errors.New("persistence provider error")
)

// ProviderError wraps a storage or connectivity failure so that both
// ErrProvider and the underlying driver error match with errors.Is.
func ProviderError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrProvider, err)
}

// Constraint wraps ErrConstraintViolation with a description of the failed rule.
func Constraint(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConstraintViolation, fmt.Sprintf(format, args...))
}
