package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and caller branching.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidState
	KindExternal
	KindRender
)

// Error is the application error type. Wraps an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

// External wraps a failure from an outside service (webhook, storage).
func External(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindExternal, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Render wraps a PDF render or upload failure so the caller can retry.
func Render(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindRender, Msg: fmt.Sprintf(format, args...), Err: err}
}

func is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsValidation(err error) bool   { return is(err, KindValidation) }
func IsNotFound(err error) bool     { return is(err, KindNotFound) }
func IsForbidden(err error) bool    { return is(err, KindForbidden) }
func IsConflict(err error) bool     { return is(err, KindConflict) }
func IsInvalidState(err error) bool { return is(err, KindInvalidState) }
func IsExternal(err error) bool     { return is(err, KindExternal) }
func IsRender(err error) bool       { return is(err, KindRender) }

// HTTPStatus maps an error to the response status code. Unknown errors
// map to 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindExternal, KindRender:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
