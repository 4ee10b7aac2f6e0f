package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. The HTTP error handler maps each sentinel to a status code;
// anything that does not match one of these is treated as unexpected (500).
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrAuthorExists    = errors.New("author already exists")
	ErrTooManyAttempts = errors.New("too many failed login attempts")
)

var (
	ErrAuthorNotFound  = fmt.Errorf("author %w", ErrNotFound)
	ErrBlogNotFound    = fmt.Errorf("blog %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
)

// Invalid wraps ErrValidation with a caller-facing reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Unauthenticated wraps ErrUnauthenticated with a caller-facing reason.
func Unauthenticated(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, reason)
}

// Forbidden wraps ErrForbidden with a caller-facing reason.
func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}
