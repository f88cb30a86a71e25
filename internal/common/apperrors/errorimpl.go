package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete implementation behind New. Variants share the
// base error so errors.Is matches across the whole derivation chain.
type appError struct {
	msg        string
	base       error
	wrapped    []error
	statuscode int
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the message followed by every wrapped error, joined
// with "; ".
func (e *appError) ErrorAll() string {
	if len(e.wrapped) == 0 {
		return e.msg
	}
	var b strings.Builder
	b.WriteString(e.msg)
	for _, err := range e.wrapped {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() error {
	return e.base
}

func (e *appError) UnwrapAll() []error {
	return e.wrapped
}

// New derives a fresh error from the current one. The derived error
// inherits the status code and keeps the current error as its base, so
// errors.Is(derived, current) holds.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// Msg creates a new error with the given message, wrapping the original.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		wrapped:    append([]error{e}, e.wrapped...),
		statuscode: e.statuscode,
	}
}

// MsgErr creates a new error with the given message and wraps the
// original plus any additional errors.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:        msg,
		base:       e,
		wrapped:    append([]error{e}, errs...),
		statuscode: e.statuscode,
	}
}

// Err attaches additional errors without changing the message.
func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:        e.msg,
		base:       e,
		wrapped:    append([]error{e}, errs...),
		statuscode: e.statuscode,
	}
}

// SetStatusCode returns a copy with the given HTTP status code. The
// original error is unchanged.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

// Is matches against the base error and every wrapped error.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrapped {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root-level error with the given message.
func New(msg string) Error {
	return &appError{msg: msg}
}
