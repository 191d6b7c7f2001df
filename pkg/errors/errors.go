// Package errors provides structured error types for depfilter.
//
// Every failure that crosses a package boundary carries a [Code] so the CLI
// can decide whether a condition is fatal for the whole process (unsupported
// manifest type) or only for a single filtering operation (missing or
// malformed manifest).
//
// # Error Codes
//
//   - FILE_*: filesystem access failures
//   - INVALID_*: malformed input (manifest, configuration, path)
//   - UNSUPPORTED: manifest formats the tool does not handle
//   - BACKUP: the backup policy could not preserve the original manifest
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupported, "unsupported manifest: %s", name)
//	if errors.Is(err, errors.ErrCodeUnsupported) {
//	    // usage error, exit non-zero
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Filesystem errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeFileRead     Code = "FILE_READ"
	ErrCodeFileWrite    Code = "FILE_WRITE"

	// Policy errors
	ErrCodeBackup Code = "BACKUP"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (plus the cause, when present)
// without the code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err should stop the whole process rather than
// a single filtering operation. Only usage errors are fatal.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnsupported, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return true
	}
	return false
}
