package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	"github.com/render-examples/create-demo/internal/config"
	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write a commented default configuration file.

The file is created at the resolved config path:
  --config flag > CREATE_DEMO_CONFIG env > ~/.create-demo/config.yaml

Examples:
  # Initialize configuration
  create-demo config init

  # Overwrite existing configuration
  create-demo config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigInit(c, gc, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite existing configuration")

	return c
}

func runConfigInit(c *cobra.Command, gc *cmdtypes.GlobalConfig, force bool) error {
	errOut := c.ErrOrStderr()
	fsys := gc.FS()

	path, err := gc.ConfigFile()
	if err != nil {
		return cmdutil.Fail(errOut, "resolving config path", oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory"))
	}
	if path, err = config.ExpandPath(path); err != nil {
		return cmdutil.Fail(errOut, "resolving config path", err)
	}

	if exists, _ := afero.Exists(fsys, path); exists && !force {
		return cmdutil.Fail(errOut, "initializing config", &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		})
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return cmdutil.Fail(errOut, "initializing config", fmt.Errorf("creating %s: %w", filepath.Dir(path), err))
	}
	if err := afero.WriteFile(fsys, path, []byte(config.DefaultConfigTemplate), 0o600); err != nil {
		return cmdutil.Fail(errOut, "initializing config", fmt.Errorf("writing %s: %w", path, err))
	}

	out := c.OutOrStdout()
	fmt.Fprintln(out, output.FormatCheckmark("Configuration written to "+path))
	fmt.Fprintln(out, output.StyleDim.Render("Validate with: create-demo config vet"))
	return nil
}
