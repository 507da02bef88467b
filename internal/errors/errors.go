// Package errors provides sentinel errors and structured error types for the
// create-demo CLI.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrUnknownComponent indicates a selection references an id absent from the registry.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidProjectName indicates the project name fails the charset rule
	// or its target directory already exists.
	ErrInvalidProjectName = errors.New("invalid project name")

	// ErrUnsupportedVariant indicates a frontend deploy variant the component does not support.
	ErrUnsupportedVariant = errors.New("unsupported variant")

	// ErrDuplicateWorker indicates two selected workers resolve to the same subdirectory.
	ErrDuplicateWorker = errors.New("duplicate worker")

	// ErrDuplicateComponent indicates the same API id was selected twice, or
	// two components claim one subdirectory.
	ErrDuplicateComponent = errors.New("duplicate component")

	// ErrTemplateMissing indicates a scaffold action references a template
	// absent from the template store. It is never fatal.
	ErrTemplateMissing = errors.New("template missing")

	// ErrInvalidRegistry indicates the component catalog failed validation.
	ErrInvalidRegistry = errors.New("invalid registry")

	// ErrValidation indicates a generic validation failure (config files, flags).
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file or directory was not found.
	ErrNotFound = errors.New("not found")

	// ErrOutOfSync indicates local rule or config files differ from the templates.
	ErrOutOfSync = errors.New("out of sync")
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path or directory involved (optional).
	Location string

	// Field is the selection or config field at fault (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewUnknownComponentError reports a selection id that the registry does not contain.
func NewUnknownComponentError(kind, id string, available []string) error {
	hint := ""
	if len(available) > 0 {
		hint = fmt.Sprintf("Available %ss: %s", kind, strings.Join(available, ", "))
	}
	return &DetailError{
		Type:    "unknown component",
		Message: fmt.Sprintf("%s %q is not in the registry", kind, id),
		Field:   kind,
		Hint:    hint,
		Cause:   ErrUnknownComponent,
	}
}

// NewInvalidProjectNameError reports an unusable project name.
func NewInvalidProjectNameError(name, location, reason string) error {
	return &DetailError{
		Type:     "invalid project name",
		Message:  fmt.Sprintf("project name %q: %s", name, reason),
		Location: location,
		Field:    "projectName",
		Hint:     "Use letters, digits, '-' and '_' and a directory that does not exist yet.",
		Cause:    ErrInvalidProjectName,
	}
}

// NewUnsupportedVariantError reports a deploy variant the frontend cannot produce.
func NewUnsupportedVariantError(component, variant string, supported []string) error {
	return &DetailError{
		Type:    "unsupported variant",
		Message: fmt.Sprintf("frontend %q does not support the %q deploy type", component, variant),
		Field:   "frontendDeployType",
		Hint:    fmt.Sprintf("Supported deploy types: %s", strings.Join(supported, ", ")),
		Cause:   ErrUnsupportedVariant,
	}
}

// NewDuplicateWorkerError reports two workers resolving to one subdirectory.
func NewDuplicateWorkerError(first, second, subdir string) error {
	msg := fmt.Sprintf("workers %q and %q both resolve to %s/", first, second, subdir)
	if first == second {
		msg = fmt.Sprintf("worker %q selected more than once", first)
	}
	return &DetailError{
		Type:     "duplicate worker",
		Message:  msg,
		Location: subdir,
		Field:    "workers",
		Cause:    ErrDuplicateWorker,
	}
}

// NewSubdirConflictError reports two components of different kinds that
// would be written to the same project subdirectory.
func NewSubdirConflictError(first, second, subdir string) error {
	return &DetailError{
		Type:     "duplicate component",
		Message:  fmt.Sprintf("%s and %s both write to %s/", first, second, subdir),
		Location: subdir,
		Hint:     "Use a custom registry with distinct subdirectories, or drop one of the components.",
		Cause:    ErrDuplicateComponent,
	}
}

// NewRegistryError reports every problem found while validating a catalog.
func NewRegistryError(location string, problems []string) error {
	return &DetailError{
		Type:     "invalid registry",
		Message:  strings.Join(problems, "\n  "),
		Location: location,
		Context:  map[string]string{"problems": fmt.Sprint(len(problems))},
		Cause:    ErrInvalidRegistry,
	}
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
