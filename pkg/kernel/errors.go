// Package kernel is the shared domain kernel of the catalog contexts: the
// MeasureType enumeration, the Name value object, the archive lifecycle,
// the duplicate policies and the domain event envelope. It depends on nothing
// but the standard library and uuid, so every bounded context can import it.
package kernel

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete failures are *Error values that unwrap to one of these,
// so callers branch with errors.Is and read the code with errors.As.
var (
	ErrValueRequired      = errors.New("value required")
	ErrValueInvalid       = errors.New("value invalid")
	ErrUnknownMeasureType = errors.New("unknown measure type")
	ErrAlreadyArchived    = errors.New("already archived")
	ErrAlreadyUnarchived  = errors.New("already unarchived")
	ErrUniqueViolation    = errors.New("unique violation")
	ErrNotFound           = errors.New("not found")
)

// Error is a business failure with a stable dotted code (e.g. "item.is.already.archived")
// and a human-readable message.
type Error struct {
	Code    string
	Message string
	kind    error
}

// NewError returns an Error of the given kind.
func NewError(kind error, code, message string) *Error {
	return &Error{Code: code, Message: message, kind: kind}
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ValueRequired reports a mandatory field that was not supplied.
func ValueRequired(field string) *Error {
	return NewError(ErrValueRequired, "value.is.required", fmt.Sprintf("Value is required for %s", field))
}

// ValueInvalid reports a field whose value is malformed.
func ValueInvalid(field string) *Error {
	return NewError(ErrValueInvalid, "value.is.invalid", fmt.Sprintf("Value is invalid for %s", field))
}

// ValueTooLong reports a field longer than max characters.
func ValueTooLong(field string, max int) *Error {
	return NewError(ErrValueInvalid, "value.is.too.long",
		fmt.Sprintf("Value for %s must not exceed %d characters", field, max))
}
