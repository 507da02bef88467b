package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/resolver"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap lets errors.Is match oerrors.ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validate checks the values of cfg.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Registry != "" && strings.TrimSpace(cfg.Registry) == "" {
		errs = append(errs, ValidationError{
			Field:   KeyRegistry,
			Message: "must not be empty or whitespace only",
		})
	}

	if cfg.Templates != "" && strings.TrimSpace(cfg.Templates) == "" {
		errs = append(errs, ValidationError{
			Field:   KeyTemplates,
			Message: "must not be empty or whitespace only",
		})
	}

	if d := registry.DeployType(cfg.Defaults.Deploy); d != "" && d != registry.DeployStatic && d != registry.DeployWebservice {
		errs = append(errs, ValidationError{
			Field:   KeyDefaultsDeploy,
			Message: fmt.Sprintf("must be %q or %q, got %q", registry.DeployStatic, registry.DeployWebservice, d),
		})
	}

	known := resolver.KnownExtras()
	for _, extra := range cfg.Defaults.Extras {
		if !slices.Contains(known, extra) {
			errs = append(errs, ValidationError{
				Field:   KeyDefaultExtras,
				Message: fmt.Sprintf("unknown extra %q (valid: %s)", extra, strings.Join(known, ", ")),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateFile validates a configuration file at the given path. Unknown
// keys and mistyped values are rejected.
func ValidateFile(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return oerrors.NewNotFoundError("config file not found", expanded, "run 'create-demo config init' to create one")
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return ValidationErrors{{Field: "file", Message: err.Error()}}
	}

	return Validate(&cfg)
}
