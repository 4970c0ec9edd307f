package domain

import (
	"errors"
	"fmt"
)

// Error categories. Handlers classify with errors.Is to pick an HTTP status;
// the wrapped message is what the client sees.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid request")
)

type conditionError struct {
	category error
	msg      string
}

func (e *conditionError) Error() string { return e.msg }
func (e *conditionError) Unwrap() error { return e.category }

// NotFound returns an ErrNotFound with a client-facing message.
func NotFound(msg string) error { return &conditionError{ErrNotFound, msg} }

// Forbidden returns an ErrForbidden with a client-facing message.
func Forbidden(msg string) error { return &conditionError{ErrForbidden, msg} }

// Invalid returns an ErrInvalid with a client-facing message.
func Invalid(msg string) error { return &conditionError{ErrInvalid, msg} }

// Invalidf is Invalid with formatting.
func Invalidf(format string, args ...any) error {
	return &conditionError{ErrInvalid, fmt.Sprintf(format, args...)}
}
