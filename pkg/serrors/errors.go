package serrors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for callers deciding whether and how to
// retry. The mapping follows the usual contract: NotFound and Forbidden are
// final, Invalid requires corrected input, Conflict requires fresh state,
// Unavailable is transient and safe to retry with backoff.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindInvalid     Kind = "invalid"
	KindConflict    Kind = "conflict"
	KindForbidden   Kind = "forbidden"
	KindUnavailable Kind = "unavailable"
)

// BaseError carries a Kind plus a stable machine-readable reason code
// (e.g. "no-vacancy", "appointment-active"). Presentation layers key
// localization off Code; the engine never formats user-facing text.
type BaseError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *BaseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Code, e.Message)
}

func NewError(kind Kind, code, message string) *BaseError {
	return &BaseError{Kind: kind, Code: code, Message: message}
}

func NewNotFound(code, message string) *BaseError {
	return NewError(KindNotFound, code, message)
}

func NewInvalid(code, message string) *BaseError {
	return NewError(KindInvalid, code, message)
}

func NewConflict(code, message string) *BaseError {
	return NewError(KindConflict, code, message)
}

func NewForbidden(code, message string) *BaseError {
	return NewError(KindForbidden, code, message)
}

func NewUnavailable(code, message string) *BaseError {
	return NewError(KindUnavailable, code, message)
}

func NewFieldRequiredError(field string) *BaseError {
	return &BaseError{
		Kind:    KindInvalid,
		Code:    "field-required",
		Message: fmt.Sprintf("field %q is required", field),
	}
}

// IsKind reports whether err (or anything it wraps) is a BaseError of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var base *BaseError
	if !errors.As(err, &base) {
		return false
	}
	return base.Kind == kind
}

// CodeOf returns the reason code of err, or "" if err carries none.
func CodeOf(err error) string {
	var base *BaseError
	if !errors.As(err, &base) {
		return ""
	}
	return base.Code
}

// Retryable reports whether the caller may retry the same call unchanged.
// Only transient unavailability qualifies; conflicts need fresh state first.
func Retryable(err error) bool {
	return IsKind(err, KindUnavailable)
}
