package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects a login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated is returned when no valid (or refreshable) session exists.
	ErrUnauthenticated = errors.New("user not authenticated")

	// ErrForbidden is returned when a valid session lacks the required role.
	ErrForbidden = errors.New("permission denied")

	// ErrLocked is returned on any write attempt against a locked course.
	ErrLocked = errors.New("course is locked")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// BackendError wraps an error response (or transport failure) from the
// remote REST API. StatusCode is 0 when the request never got a response.
type BackendError struct {
	StatusCode int
	Message    string
}

func NewBackendError(code int, msg string) error {
	return &BackendError{StatusCode: code, Message: msg}
}

func (err BackendError) Error() string {
	if err.StatusCode == 0 {
		return err.Message
	}
	return fmt.Sprintf("backend returned %d: %s", err.StatusCode, err.Message)
}

func IsBackendError(err error) bool {
	_, ok := errors.Cause(err).(*BackendError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
