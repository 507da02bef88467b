// Package cmdtypes provides shared types for the cmd package and its helpers.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and internal/cmdutil.
package cmdtypes

import (
	"github.com/spf13/afero"

	"github.com/render-examples/create-demo/internal/config"
	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/scaffold"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Resolved is the effective configuration with value sources.
	Resolved *config.ResolvedConfig

	// ConfigPath is the resolved --config path.
	ConfigPath string

	Verbose bool

	// Fs is the filesystem commands read and write. Nil means the OS.
	Fs afero.Fs

	// Runner executes scaffold commands. Nil means os/exec.
	Runner scaffold.CommandRunner
}

// FS returns the command filesystem.
func (g *GlobalConfig) FS() afero.Fs {
	if g == nil || g.Fs == nil {
		return afero.NewOsFs()
	}
	return g.Fs
}

// ConfigFile returns the resolved config path, or the default before
// resolution ran.
func (g *GlobalConfig) ConfigFile() (string, error) {
	if g != nil && g.ConfigPath != "" {
		return g.ConfigPath, nil
	}
	return config.GetConfigFile()
}

// Config returns the effective configuration, or the defaults before
// resolution ran.
func (g *GlobalConfig) Config() *config.Config {
	if g == nil || g.Resolved == nil {
		return config.DefaultConfig()
	}
	return g.Resolved.Config
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
	ExitOutOfSync       = oerrors.ExitOutOfSync
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
