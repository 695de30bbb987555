package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema definition error.
	ErrInvalidSchema = errors.New("loom: invalid schema")
)

// ResourceError represents a resource-level schema error.
type ResourceError struct {
	Resource string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	var b strings.Builder
	b.WriteString("loom: schema error")
	if e.Resource != "" {
		b.WriteString(" on resource ")
		b.WriteString(e.Resource)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *ResourceError) Is(target error) bool { return target == ErrInvalidSchema }

// NewResourceError creates a new ResourceError.
func NewResourceError(resource, message string, cause error) *ResourceError {
	return &ResourceError{Resource: resource, Message: message, Cause: cause}
}

// FieldError represents a field-level schema error.
type FieldError struct {
	Resource string
	Field    string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteString("loom: schema error")
	if e.Resource != "" {
		b.WriteString(" on resource ")
		b.WriteString(e.Resource)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *FieldError) Is(target error) bool { return target == ErrInvalidSchema }

// NewFieldError creates a new FieldError.
func NewFieldError(resource, field, message string, cause error) *FieldError {
	return &FieldError{Resource: resource, Field: field, Message: message, Cause: cause}
}

// IsSchemaError reports whether err is a resource or field schema error.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrInvalidSchema)
}

// ParseError is a parse failure reported by the text front ends.
// Line numbers are 1-based.
type ParseError struct {
	Message string
	Line    int
}

// Error implements the error interface.
func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("loom: line %d: %s", e.Line, e.Message)
	}
	return "loom: " + e.Message
}

// Join filters nil errors and joins the remainder. It returns nil when
// nothing is left.
func Join(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return errors.Join(filtered...)
}
