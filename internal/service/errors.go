package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown account and wrong
	// password, so login failures cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden means the identity is valid but lacks the privilege
	// for the operation.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports the first violated input constraint.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
