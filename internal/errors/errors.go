// Package errors provides structured error handling for template-init.
// Every failure that reaches the top level is a CLIError carrying one of the
// four categories below; the category decides the diagnostic label and the
// process exit code.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Runtime errors are unexpected I/O or parse failures.
	Runtime ErrorCategory = iota
	// Argument errors are caused by malformed or unknown command-line flags.
	Argument
	// Precondition errors block the run before any prompt, e.g. an existing sentinel.
	Precondition
	// Input errors are resolved configuration values that fail their format rules.
	Input
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Invalid Argument"
	case Precondition:
		return "Precondition Blocked"
	case Input:
		return "Invalid Input"
	case Runtime:
		return "Unexpected Failure"
	default:
		return "Error"
	}
}

// CLIError is a structured error with a category.
type CLIError struct {
	// Category is the type of error.
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Field names the offending configuration field for Input errors.
	Field string

	cause error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *CLIError) Unwrap() error {
	return e.cause
}

// NewArgumentError creates a new argument error.
func NewArgumentError(format string, args ...any) *CLIError {
	return &CLIError{Category: Argument, Message: fmt.Sprintf(format, args...)}
}

// NewPreconditionError creates a new precondition error.
func NewPreconditionError(format string, args ...any) *CLIError {
	return &CLIError{Category: Precondition, Message: fmt.Sprintf(format, args...)}
}

// NewInputError creates a new input error for the given field.
func NewInputError(field, message string) *CLIError {
	return &CLIError{Category: Input, Field: field, Message: message}
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category: category,
		Message:  err.Error(),
		cause:    err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category: category,
		Message:  fmt.Sprintf("%s: %v", message, err),
		cause:    err,
	}
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if no CLIError is found in the chain.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}

// Categorize returns err as a CLIError, wrapping anything uncategorised as
// a Runtime error.
func Categorize(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}
	return Wrap(err, Runtime)
}
