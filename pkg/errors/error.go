// Package errors provides structured error handling with typed error codes.
//
// Error codes are grouped by the component that raises them:
//   - General errors (1-99): Unknown errors
//   - Validation errors (100-199): Invalid configuration, order fields, account and calculator inputs
//   - Data errors (200-299): Bars or symbol metadata that could not be found or queried
//   - Indicator errors (300-399): Indicator calculation failures
//   - Strategy errors (400-499): Strategy lookup, configuration, and runtime errors
//   - Window errors (500-599): Out-of-range history access
//   - Backtest errors (600-699): Engine, pipeline and log sink failures
//   - Callback errors (800-899): Lifecycle callback failures
//
// Usage:
//
//	// Reject an order setter call
//	err := errors.New(errors.ErrCodeInvalidOrderField, "stop loss must be positive")
//
//	// Report a missing symbol
//	err := errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not found", name)
//
//	// Wrap a pipeline failure
//	err := errors.Wrap(errors.ErrCodePipelineFailed, "fetch stage failed", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeInvalidOrderField) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether any *Error in err's chain carries code, so a
// pipeline failure still reports the sink or strategy error it wraps.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}

		err = e.Cause
	}

	return false
}
