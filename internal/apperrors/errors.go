// Package apperrors defines the error taxonomy shared by the application and
// delivery layers.
package apperrors

import (
	"errors"
	"sort"
	"strings"
)

// Kind classifies an application error. The delivery layer maps each kind to
// a status code.
type Kind string

const (
	KindValidation         Kind = "VALIDATION"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindBadRequest         Kind = "BAD_REQUEST"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindNotFound           Kind = "NOT_FOUND"
	KindTooManyRequests    Kind = "TOO_MANY_REQUESTS"
)

// NonFieldErrors is the key used for object-level validation messages.
const NonFieldErrors = "non_field_errors"

// Error is the application error type.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string // field-level messages, validation only
	Cause   error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrBadRequest         = &Error{Kind: KindBadRequest}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrTooManyRequests    = &Error{Kind: KindTooManyRequests}
)

// Validation returns a validation error carrying a single field message.
func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "validation failed",
		Fields:  map[string][]string{field: {message}},
	}
}

// ValidationFields returns a validation error for a prebuilt field map.
func ValidationFields(fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// UnauthorizedCause wraps the underlying token error for logging.
func UnauthorizedCause(message string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Cause: cause}
}

func NotFound() *Error {
	return &Error{Kind: KindNotFound, Message: "Not found."}
}

func TooManyRequests(message string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: message}
}

// Collector accumulates field messages before producing a validation error.
type Collector struct {
	fields map[string][]string
}

// Add records a message for field.
func (c *Collector) Add(field, message string) {
	if c.fields == nil {
		c.fields = make(map[string][]string)
	}
	c.fields[field] = append(c.fields[field], message)
}

// Merge copies the fields of a validation error into the collector. Any other
// error is returned unchanged so the caller can propagate it.
func (c *Collector) Merge(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind != KindValidation {
		return err
	}
	for field, msgs := range appErr.Fields {
		for _, m := range msgs {
			c.Add(field, m)
		}
	}
	return nil
}

// Err returns nil when nothing was collected.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return ValidationFields(c.fields)
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
