package errors

import "errors"

// Exit codes returned by the create-demo binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates the selection, registry or config was rejected.
	ExitValidationError = 2

	// ExitNotFound indicates a file, directory, or template was not found.
	ExitNotFound = 5

	// ExitOutOfSync indicates `check --ci` found drifted files.
	ExitOutOfSync = 7
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrUnknownComponent),
		errors.Is(err, ErrInvalidProjectName),
		errors.Is(err, ErrUnsupportedVariant),
		errors.Is(err, ErrDuplicateWorker),
		errors.Is(err, ErrDuplicateComponent),
		errors.Is(err, ErrInvalidRegistry),
		errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTemplateMissing):
		return ExitNotFound
	case errors.Is(err, ErrOutOfSync):
		return ExitOutOfSync
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitNotFound:
		return "Not Found"
	case ExitOutOfSync:
		return "Out Of Sync"
	default:
		return "Unknown"
	}
}
