package parse

import (
	"fmt"

	"github.com/railwayhistory/raildata/internal/types"
)

// ErrorCode categorizes load-time errors.
type ErrorCode string

const (
	// ErrCodeStructural indicates a malformed record or bad field shape.
	ErrCodeStructural ErrorCode = "STRUCTURAL_PARSE"

	// ErrCodeDuplicateKey indicates two documents claiming the same key.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
)

// Error is a structural parse error for one field of one record.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Key is the document's key, when it was recoverable.
	Key types.Key

	// Field is the dotted path of the offending field.
	Field string

	// Expected describes the shape the field should have had.
	Expected string

	// Message is a human-readable description.
	Message string

	// Origin is the position of the offending node in the input.
	Origin types.Origin
}

// Error implements the error interface.
func (e *Error) Error() string {
	loc := e.Origin.String()
	switch {
	case e.Field != "" && e.Expected != "":
		return fmt.Sprintf("%s: %s: field %s: %s (expected %s)", loc, e.Code, e.Field, e.Message, e.Expected)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: field %s: %s", loc, e.Code, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s: %s", loc, e.Code, e.Message)
	}
}

// errorList accumulates parse errors for one record.
type errorList struct {
	errs []error
}

func (l *errorList) add(err *Error) {
	l.errs = append(l.errs, err)
}

func (l *errorList) structural(origin types.Origin, field, expected, format string, args ...any) {
	l.add(&Error{
		Code:     ErrCodeStructural,
		Field:    field,
		Expected: expected,
		Message:  fmt.Sprintf(format, args...),
		Origin:   origin,
	})
}

// stamp fills the document key into errors collected before it was known.
func (l *errorList) stamp(key types.Key) {
	for _, err := range l.errs {
		var pe *Error
		if pe, _ = err.(*Error); pe != nil && pe.Key.IsEmpty() {
			pe.Key = key
		}
	}
}
