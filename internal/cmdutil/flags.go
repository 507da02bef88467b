// Package cmdutil provides shared command utilities.
// It centralizes flag group management, composer construction and output
// helpers used by the create-demo commands.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/config"
	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/resolver"
)

// SelectionFlags holds the component selection flags
// (init, blueprint, diff).
type SelectionFlags struct {
	Preset   string
	Frontend string
	Deploy   string
	APIs     []string
	Workers  []string
	Database string
	Cache    string
	Extras   []string
}

// AddTo registers the selection flags on the given cobra command.
func (f *SelectionFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Preset, "preset", "p", "",
		"Preset to start from (see 'create-demo components --kind preset')")
	cmd.Flags().StringVar(&f.Frontend, "frontend", "",
		"Frontend component (e.g. nextjs, vite)")
	cmd.Flags().StringVar(&f.Deploy, "deploy", "",
		"Frontend deploy type: static or webservice (default: from config)")
	cmd.Flags().StringArrayVar(&f.APIs, "api", nil,
		"API component (can be repeated)")
	cmd.Flags().StringArrayVar(&f.Workers, "worker", nil,
		"Worker component (can be repeated)")
	cmd.Flags().StringVar(&f.Database, "database", "",
		"Database component (e.g. postgres)")
	cmd.Flags().StringVar(&f.Cache, "cache", "",
		"Cache component (e.g. redis)")
	cmd.Flags().StringArrayVar(&f.Extras, "extra", nil,
		"Extra project file: env, docker (can be repeated)")
}

// Selection builds the selection for project. A preset fills whatever the
// flags left open, then config defaults fill the deploy type and extras.
func (f *SelectionFlags) Selection(cmd *cobra.Command, project string, cfg *config.Config, reg *registry.Registry) (resolver.Selection, error) {
	sel := resolver.Selection{
		ProjectName: project,
		Frontend:    f.Frontend,
		DeployType:  registry.DeployType(f.Deploy),
		APIs:        f.APIs,
		Workers:     f.Workers,
		Database:    f.Database,
		Cache:       f.Cache,
		Extras:      f.Extras,
	}

	if f.Preset != "" {
		if reg == nil {
			return sel, fmt.Errorf("preset %q needs a registry", f.Preset)
		}
		p, ok := reg.Preset(f.Preset)
		if !ok {
			return sel, oerrors.NewUnknownComponentError("preset", f.Preset, reg.PresetIDs())
		}
		sel = sel.WithPreset(p)
	}

	if cfg == nil {
		return sel, nil
	}
	if !cmd.Flags().Changed("deploy") && sel.DeployType == "" && sel.Frontend != "" {
		sel.DeployType = registry.DeployType(cfg.Defaults.Deploy)
	}
	if !cmd.Flags().Changed("extra") && len(sel.Extras) == 0 {
		sel.Extras = cfg.Defaults.Extras
	}
	return sel, nil
}

// TargetFlags holds the project directory flag (init, check, sync, diff).
type TargetFlags struct {
	Dir string
}

// AddTo registers the target flags on the given cobra command.
func (f *TargetFlags) AddTo(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVar(&f.Dir, "dir", ".", usage)
}

// ProjectArg returns the project name argument.
func ProjectArg(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("project name is required")
	}
	return args[0], nil
}
