package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email address already registered")
	ErrMissingRefreshToken = errors.New("refresh token is required")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	ErrMissingToken          = errors.New("access token is required")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	// ErrMalformedToken is returned when a token cannot be decoded at all.
	// Callers outside the token codec treat it like ErrInvalidOrExpiredToken.
	ErrMalformedToken   = errors.New("malformed token")
	ErrInsufficientRole = errors.New("insufficient role")

	ErrNotFound         = errors.New("not found")
	ErrPackageNotFound  = fmt.Errorf("package %w", ErrNotFound)
	ErrPackageNameTaken = errors.New("package name already in use")
	ErrInvalidImage     = errors.New("invalid image")
)

// ValidationError reports missing or malformed input. Its message is safe to
// return to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
