package cmdutil

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/render-examples/create-demo/internal/compose"
	"github.com/render-examples/create-demo/internal/config"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/scaffold"
	"github.com/render-examples/create-demo/internal/templates"
)

// LoadRegistry returns the configured catalog, or the embedded one when no
// registry file is set.
func LoadRegistry(fsys afero.Fs, cfg *config.Config) (*registry.Registry, error) {
	if cfg == nil || cfg.Registry == "" {
		return registry.Default()
	}

	path, err := config.ExpandPath(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("expanding registry path: %w", err)
	}
	reg, err := registry.LoadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	output.Debug("using custom registry", "path", reg.Location())
	return reg, nil
}

// LoadTemplates returns the embedded template store, overlaid with the
// configured templates directory if one is set.
func LoadTemplates(fsys afero.Fs, cfg *config.Config) (*templates.Store, error) {
	if cfg == nil || cfg.Templates == "" {
		return templates.Embedded(), nil
	}

	dir, err := config.ExpandPath(cfg.Templates)
	if err != nil {
		return nil, fmt.Errorf("expanding templates path: %w", err)
	}
	output.Debug("using template overlay", "dir", dir)
	return templates.WithOverlay(fsys, dir)
}

// NewComposer wires a composer from cfg. A nil runner executes commands
// with os/exec and discards their output.
func NewComposer(fsys afero.Fs, cfg *config.Config, runner scaffold.CommandRunner) (*compose.Composer, error) {
	reg, err := LoadRegistry(fsys, cfg)
	if err != nil {
		return nil, err
	}
	store, err := LoadTemplates(fsys, cfg)
	if err != nil {
		return nil, err
	}
	return &compose.Composer{
		Registry:  reg,
		Templates: store,
		Fs:        fsys,
		Runner:    runner,
	}, nil
}
