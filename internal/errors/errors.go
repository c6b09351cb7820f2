package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountLocked        = errors.New("account temporarily locked")
	ErrEmailAlreadyInUse    = errors.New("email already in use")
	ErrUserNotFound         = errors.New("user not found")
	ErrSessionNotFound      = errors.New("session not found")
)

// ValidationError carries per-field messages for malformed input. It is the
// only error kind whose detail is safe to return to the caller verbatim.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f, e.Fields[f])
	}
	return b.String()
}
