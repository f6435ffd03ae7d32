package service

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Handlers map these to HTTP statuses; anything else is
// an unexpected failure, logged in full and surfaced generically.
var (
	ErrRunNotFound        = errors.New("run not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenNotFound = errors.New("reset token not found")

	ErrNotRunOwner        = errors.New("not authorized to modify this run")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrResetTokenUsed     = errors.New("reset token already used")
	ErrResetTokenExpired  = errors.New("reset token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
)

// ValidationError carries the offending field so handlers can report
// field-level detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
