// Package errors provides structured error handling for hero-dbc.
// Errors carry a code, a message, and key/value context so a failing
// run can point at the offending file, field, and row.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// Read errors (1xx)
	CodeFileNotFound   Code = "E101"
	CodeFilePermission Code = "E102"
	CodeMissingColumn  Code = "E103"
	CodeReadFailed     Code = "E104"

	// Parse errors (2xx)
	CodeParseFailed Code = "E201"

	// Write errors (3xx)
	CodeWriteFailed Code = "E301"

	// System errors (4xx)
	CodeContextCanceled Code = "E401"

	// Unknown
	CodeUnknown Code = "E999"
)

// Error is the base error type for all hero-dbc errors.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		sb.WriteString(")")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new Error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// --- Convenience constructors ---

// FileNotFound creates a file not found error.
func FileNotFound(path string) *Error {
	return New(CodeFileNotFound, "file not found").WithContext("path", path)
}

// MissingColumn creates a missing column error.
func MissingColumn(path string, columns []string) *Error {
	return New(CodeMissingColumn, "required column not found").
		WithContext("path", path).
		WithContext("columns", columns)
}

// BadIntField creates a parse error for a numeric field.
func BadIntField(field, value string, row int) *Error {
	return New(CodeParseFailed, "field is not an integer").
		WithContext("field", field).
		WithContext("value", value).
		WithContext("row", row)
}

// WriteFailed creates a write error.
func WriteFailed(path string, err error) *Error {
	return Wrap(err, CodeWriteFailed, "failed to write output").
		WithContext("path", path)
}

// ContextCanceled creates a cancellation error.
func ContextCanceled(operation string) *Error {
	return New(CodeContextCanceled, "operation canceled").
		WithContext("operation", operation)
}

// --- Error checking utilities ---

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsRead reports whether the error is a read-side failure.
func IsRead(err error) bool {
	switch GetCode(err) {
	case CodeFileNotFound, CodeFilePermission, CodeMissingColumn, CodeReadFailed, CodeParseFailed:
		return true
	default:
		return false
	}
}

// IsWrite reports whether the error is a write-side failure.
func IsWrite(err error) bool {
	return GetCode(err) == CodeWriteFailed
}

// MultiError collects errors from a multi-task run.
type MultiError struct {
	Errors []error
}

// Error implements the error interface.
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(m.Errors)))
	for i, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Combined returns nil if no errors, the single error if one, or the MultiError.
func (m *MultiError) Combined() error {
	switch len(m.Errors) {
	case 0:
		return nil
	case 1:
		return m.Errors[0]
	default:
		return m
	}
}
