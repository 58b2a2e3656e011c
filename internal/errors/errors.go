// Package errors provides structured error types for the weft content
// resolution engine.
//
// Errors carry a category, a stable code for programmatic handling, an
// optional file path for content-authoring errors, and an optional wrapped
// cause. Content parse errors must always identify the offending file so a
// broken build points the author at the exact data file.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeContent  ErrorType = "content"
	ErrorTypeStyle    ErrorType = "style"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeInternal ErrorType = "internal"
)

// Stable error codes for programmatic handling.
const (
	ErrCodeParseFile        = "ERR_PARSE_FILE"
	ErrCodeUnknownNamespace = "ERR_UNKNOWN_NAMESPACE"
	ErrCodeReferenceCycle   = "ERR_REFERENCE_CYCLE"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeIORead           = "ERR_IO_READ"
	ErrCodeInternal         = "ERR_INTERNAL"
)

// WeftError is a structured error type with context.
type WeftError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	FilePath    string
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *WeftError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *WeftError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *WeftError) Is(target error) bool {
	var t *WeftError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *WeftError) WithContext(key string, value interface{}) *WeftError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile adds file location information.
func (e *WeftError) WithFile(filePath string) *WeftError {
	e.FilePath = filePath

	return e
}

// NewParseError creates a fatal parse error for a structured-data file.
// The file path is mandatory: partial or silent data loss is not acceptable
// for a content system that drives a live site.
func NewParseError(filePath string, cause error) *WeftError {
	return &WeftError{
		Type:        ErrorTypeParse,
		Code:        ErrCodeParseFile,
		Message:     "failed to parse content file",
		Cause:       cause,
		FilePath:    filePath,
		Recoverable: false,
	}
}

// NewUnknownNamespaceError signals a request for a top-level namespace that
// does not exist in the resolved tree. This is a programming error in the
// caller, not a content-authoring error.
func NewUnknownNamespaceError(namespace string) *WeftError {
	return &WeftError{
		Type:        ErrorTypeContent,
		Code:        ErrCodeUnknownNamespace,
		Message:     fmt.Sprintf("unknown content namespace %q", namespace),
		Recoverable: false,
	}
}

// NewReferenceCycleError reports a shared fragment that references itself
// directly or transitively. The chain lists the shared paths in visit order,
// ending with the path that closed the cycle.
func NewReferenceCycleError(chain []string) *WeftError {
	return &WeftError{
		Type:        ErrorTypeContent,
		Code:        ErrCodeReferenceCycle,
		Message:     fmt.Sprintf("reference cycle: %s", strings.Join(chain, " -> ")),
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string) *WeftError {
	return &WeftError{
		Type:        ErrorTypeConfig,
		Code:        ErrCodeConfigInvalid,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(message string, cause error) *WeftError {
	return &WeftError{
		Type:        ErrorTypeIO,
		Code:        ErrCodeIORead,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *WeftError {
	return &WeftError{
		Type:        ErrorTypeInternal,
		Code:        ErrCodeInternal,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsParseError checks if an error is a content parse error.
func IsParseError(err error) bool {
	return HasErrorCode(err, ErrCodeParseFile)
}

// IsUnknownNamespace checks if an error signals an unknown namespace request.
func IsUnknownNamespace(err error) bool {
	return HasErrorCode(err, ErrCodeUnknownNamespace)
}

// IsReferenceCycle checks if an error signals a shared reference cycle.
func IsReferenceCycle(err error) bool {
	return HasErrorCode(err, ErrCodeReferenceCycle)
}

// HasErrorCode checks if any error in the chain has the specified code.
func HasErrorCode(err error, code string) bool {
	var we *WeftError
	if errors.As(err, &we) {
		return we.Code == code
	}

	return false
}
