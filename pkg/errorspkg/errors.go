// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// Error is an application error with a stable code that is safe to show to API clients.
type Error struct {
	Code    string
	Message string
}

// New returns an application error with the given code and human readable message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// ErrInternal indicates internal server error.
var ErrInternal = New("INTERNAL", "internal")

// Code returns the stable code of err.
//
// Errors that are not application errors are reported as internal.
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ErrInternal.Code
}

// Public returns err if it is an application error, ErrInternal otherwise.
func Public(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternal
}
