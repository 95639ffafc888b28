package services

import "errors"

var (
	// ErrInvalidCredentials is returned when login fails, without revealing
	// whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("username or email already exists")

	// ErrNotFound is returned when a dialogue or rating does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports rejected input with a caller-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
