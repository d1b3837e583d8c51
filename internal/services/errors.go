package services

import (
	"errors"

	"github.com/varshaaa-v/Web-Technology-Project/internal/owner"
)

var (
	ErrEmailTaken         = errors.New("An account with this email already exists")
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrCategoryNotFound   = errors.New("Category not found")
	ErrTaskNotFound       = errors.New("Task not found")
	ErrForbidden          = owner.ErrForbidden
)

// ValidationError reports missing or malformed input. Its message is safe to
// return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
