package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping. Every error that crosses the
// service boundary carries exactly one kind; anything unclassified is Internal.
type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Unauthenticated
	Forbidden
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, not exposed to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, walking the wrap chain. Unclassified
// errors report Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the caller-facing message for err. Unclassified errors get
// a generic message so internals never leak to the caller.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
