package cli

import (
	clierrors "github.com/seaguntech/template-init/internal/errors"
)

// Exit codes for the template-init CLI
// These codes let scripts tell a blocked re-run from a typo or a crash
const (
	// ExitSuccess indicates successful execution, including dry runs and --help
	ExitSuccess = 0

	// ExitUnexpectedFailure indicates an I/O or parse failure
	ExitUnexpectedFailure = 1

	// ExitInvalidInput indicates a resolved identity value failed validation
	ExitInvalidInput = 2

	// ExitInvalidArguments indicates an unknown flag or a missing flag value
	ExitInvalidArguments = 3

	// ExitPreconditionBlocked indicates the template was already initialized
	ExitPreconditionBlocked = 4
)

// ExitCode maps an error category to its process exit code.
func ExitCode(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Precondition:
		return ExitPreconditionBlocked
	case clierrors.Input:
		return ExitInvalidInput
	default:
		return ExitUnexpectedFailure
	}
}
