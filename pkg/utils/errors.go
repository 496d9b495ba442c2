package utils

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityLow ErrorSeverity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// ErrorCategory represents the category of an error
type ErrorCategory int

const (
	CategorySystem ErrorCategory = iota
	CategoryNetwork
	CategoryConfiguration
	CategoryValidation
	CategoryGeneration
	CategoryAuthorization
)

// Error codes used across the service.
const (
	CodeGenerationTimeout = "GEN_TIMEOUT"
	CodeGenerationOutput  = "GEN_OUTPUT"
	CodeNetwork           = "NET_ERROR"
	CodeValidation        = "VAL_ERROR"
	CodeConfiguration     = "CFG_ERROR"
	CodeAuthorization     = "AUTH_ERROR"
	CodeSystem            = "SYS_ERROR"
)

// ErrorContext provides additional context for errors
type ErrorContext struct {
	Component string
	Operation string
	Resource  string
}

// StructuredError represents a standardized error with rich context
type StructuredError struct {
	Code        string
	Message     string
	Severity    ErrorSeverity
	Category    ErrorCategory
	Context     *ErrorContext
	RootCause   error
	StackTrace  string
	Timestamp   int64
	Recoverable bool
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.RootCause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.RootCause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for compatibility with errors.Is and errors.As
func (e *StructuredError) Unwrap() error {
	return e.RootCause
}

// NewStructuredError creates a new structured error
func NewStructuredError(code, message string, severity ErrorSeverity, category ErrorCategory, rootCause error) *StructuredError {
	err := &StructuredError{
		Code:        code,
		Message:     message,
		Severity:    severity,
		Category:    category,
		RootCause:   rootCause,
		Timestamp:   time.Now().Unix(),
		Recoverable: true,
	}

	// Capture stack trace for high severity errors
	if severity >= SeverityHigh {
		err.StackTrace = captureStackTrace()
	}

	return err
}

// NewSystemError creates a system-level error
func NewSystemError(operation string, rootCause error) *StructuredError {
	return NewStructuredError(
		CodeSystem,
		fmt.Sprintf("System error during %s", operation),
		SeverityHigh,
		CategorySystem,
		rootCause,
	).WithOperation(operation)
}

// NewNetworkError creates a network-related error
func NewNetworkError(operation string, rootCause error) *StructuredError {
	return NewStructuredError(
		CodeNetwork,
		fmt.Sprintf("Network error during %s", operation),
		SeverityMedium,
		CategoryNetwork,
		rootCause,
	).WithOperation(operation)
}

// NewConfigError creates a configuration-related error
func NewConfigError(key string, rootCause error) *StructuredError {
	return NewStructuredError(
		CodeConfiguration,
		fmt.Sprintf("Configuration error for %s", key),
		SeverityMedium,
		CategoryConfiguration,
		rootCause,
	).WithResource(key).MakeUnrecoverable()
}

// NewValidationError creates a validation error
func NewValidationError(field, reason string) *StructuredError {
	return NewStructuredError(
		CodeValidation,
		fmt.Sprintf("Validation failed for %s: %s", field, reason),
		SeverityLow,
		CategoryValidation,
		nil,
	).WithResource(field).MakeUnrecoverable()
}

// NewGenerationTimeoutError marks a model call that ran past its deadline.
func NewGenerationTimeoutError(model string, rootCause error) *StructuredError {
	return NewStructuredError(
		CodeGenerationTimeout,
		fmt.Sprintf("Generation with %s timed out", model),
		SeverityMedium,
		CategoryGeneration,
		rootCause,
	).WithResource(model)
}

// NewGenerationOutputError marks model output that could not be used.
func NewGenerationOutputError(operation string, rootCause error) *StructuredError {
	return NewStructuredError(
		CodeGenerationOutput,
		fmt.Sprintf("Malformed generation output during %s", operation),
		SeverityMedium,
		CategoryGeneration,
		rootCause,
	).WithOperation(operation)
}

// NewAuthorizationError creates an identity or permission error
func NewAuthorizationError(reason string) *StructuredError {
	return NewStructuredError(
		CodeAuthorization,
		reason,
		SeverityLow,
		CategoryAuthorization,
		nil,
	).MakeUnrecoverable()
}

// WithComponent adds component context
func (e *StructuredError) WithComponent(component string) *StructuredError {
	e.ensureContext().Component = component
	return e
}

// WithOperation adds operation context
func (e *StructuredError) WithOperation(operation string) *StructuredError {
	e.ensureContext().Operation = operation
	return e
}

// WithResource adds resource context
func (e *StructuredError) WithResource(resource string) *StructuredError {
	e.ensureContext().Resource = resource
	return e
}

func (e *StructuredError) ensureContext() *ErrorContext {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	return e.Context
}

// MakeUnrecoverable marks the error as unrecoverable
func (e *StructuredError) MakeUnrecoverable() *StructuredError {
	e.Recoverable = false
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// HasCategory reports whether any StructuredError in err's chain has the category.
func HasCategory(err error, category ErrorCategory) bool {
	var structuredErr *StructuredError
	for err != nil {
		if !errors.As(err, &structuredErr) {
			return false
		}
		if structuredErr.Category == category {
			return true
		}
		err = structuredErr.RootCause
	}
	return false
}

// HasCode reports whether any StructuredError in err's chain carries code.
func HasCode(err error, code string) bool {
	var structuredErr *StructuredError
	for err != nil {
		if !errors.As(err, &structuredErr) {
			return false
		}
		if structuredErr.Code == code {
			return true
		}
		err = structuredErr.RootCause
	}
	return false
}

// IsValidationError checks if an error is validation-related
func IsValidationError(err error) bool {
	return HasCategory(err, CategoryValidation)
}

// IsAuthorizationError checks if an error is an identity failure
func IsAuthorizationError(err error) bool {
	return HasCategory(err, CategoryAuthorization)
}

// FormatError formats an error for display
func FormatError(err error) string {
	var structuredErr *StructuredError
	if errors.As(err, &structuredErr) {
		var parts []string

		parts = append(parts, fmt.Sprintf("Error [%s]: %s", structuredErr.Code, structuredErr.Message))

		if structuredErr.Context != nil {
			if structuredErr.Context.Component != "" {
				parts = append(parts, fmt.Sprintf("Component: %s", structuredErr.Context.Component))
			}
			if structuredErr.Context.Operation != "" {
				parts = append(parts, fmt.Sprintf("Operation: %s", structuredErr.Context.Operation))
			}
			if structuredErr.Context.Resource != "" {
				parts = append(parts, fmt.Sprintf("Resource: %s", structuredErr.Context.Resource))
			}
		}

		if structuredErr.RootCause != nil {
			parts = append(parts, fmt.Sprintf("Root Cause: %v", structuredErr.RootCause))
		}

		return strings.Join(parts, " | ")
	}

	return err.Error()
}
