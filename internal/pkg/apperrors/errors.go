// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable, machine-checkable error category.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindDuplicate         Kind = "duplicate"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindInvalidTransition Kind = "invalid_transition"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindInternal          Kind = "internal"
)

// Error carries a kind alongside a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// NotFound reports that an entity id did not resolve.
func NotFound(entity string, id uint) *Error {
	return New(KindNotFound, "%s %d not found", entity, id)
}

// Validation reports malformed or missing input.
func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

// Duplicate reports a uniqueness violation on a name or SKU.
func Duplicate(entity, field, value string) *Error {
	return New(KindDuplicate, "%s with %s '%s' already exists", entity, field, value)
}

// InsufficientStock names the offending item and the quantities involved.
func InsufficientStock(itemName string, available, requested int64) *Error {
	return New(KindInsufficientStock,
		"insufficient stock for item '%s': available %d, requested %d",
		itemName, available, requested)
}

// InsufficientFunds reports a treasury movement that would go negative.
func InsufficientFunds(available, requested int64) *Error {
	return New(KindInsufficientFunds,
		"insufficient funds: available %d, requested %d", available, requested)
}

// InvalidTransition reports a forbidden order state change.
func InvalidTransition(from, to string) *Error {
	return New(KindInvalidTransition, "invalid status transition from %s to %s", from, to)
}

// KindOf extracts the kind from an error chain; unknown errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to a status code for the HTTP layer.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInsufficientStock, KindInsufficientFunds:
		return http.StatusBadRequest
	case KindDuplicate, KindInvalidTransition:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
