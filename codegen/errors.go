// Package codegen emits the deployment artifacts of an app schema: the
// entity class bound to a stateful per-entity compute unit, the edge entry
// point, the deployment configuration, and the typed client SDKs.
//
// Every generator is a pure function of the AST and its options: same
// input, byte-identical output, no filesystem or network access. Writing
// artifacts to disk is the caller's job (see Writer).
package codegen

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidConfig indicates a generator configuration error.
	ErrInvalidConfig = errors.New("loom: invalid generator config")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("loom: code generation failed")
)

// ConfigError represents a generator option error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("loom: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("loom: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "entity", "worker", "deploy", "sdk"
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	msg := "loom: generation error"
	if e.Phase != "" {
		msg += " in phase " + e.Phase
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error.
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, Message: message, Cause: cause}
}
