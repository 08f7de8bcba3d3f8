// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorValidation      = errors.New("validation error")
	ErrorConflict        = errors.New("conflict")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorForbidden       = errors.New("forbidden")

	// Login failure. Unknown email and wrong password share this value.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error is an error of a known kind carrying a message meant for the caller.
// Kind is one of the sentinels above; errors.Is matches against it.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func NotFound(msg string) error        { return newError(ErrorNotFound, msg) }
func Forbidden(msg string) error       { return newError(ErrorForbidden, msg) }
func Conflict(msg string) error        { return newError(ErrorConflict, msg) }
func Validation(msg string) error      { return newError(ErrorValidation, msg) }
func Unauthenticated(msg string) error { return newError(ErrorUnauthenticated, msg) }

// Message returns the caller-facing message of err: the Message of the
// outermost *Error in the chain, or fallback when there is none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
