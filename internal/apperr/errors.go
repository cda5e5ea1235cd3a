// Package apperr holds the error taxonomy shared by the gateway, the stores and
// their callers. Match values with errors.Is.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("token does not match username")

	ErrNotFound       = errors.New("not found")
	ErrUserNotFound   = notFound("user not found")
	ErrDeviceNotFound = notFound("device not found")
	ErrClipNotFound   = notFound("clipboard record not found")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports every required field that was missing or empty.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Field pairs a request field name with whether a value was supplied.
type Field struct {
	Name    string
	Present bool
}

// Required returns a *ValidationError naming every absent field, or nil.
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if !f.Present {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

// Invalid builds a ValidationError that is not about missing fields.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
