package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	"github.com/render-examples/create-demo/internal/config"
	"github.com/render-examples/create-demo/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the create-demo configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML with known keys only
  3. Values pass validation (deploy type, extras, paths)

The config path is resolved using precedence:
  --config flag > CREATE_DEMO_CONFIG env > ~/.create-demo/config.yaml

Examples:
  create-demo config vet
  create-demo config vet --config ./create-demo.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, gc)
		},
	}
}

func runConfigVet(c *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	errOut := c.ErrOrStderr()

	path, err := gc.ConfigFile()
	if err != nil {
		return cmdutil.Fail(errOut, "resolving config path", err)
	}
	output.Debug("validating config", "path", path)

	if err := config.ValidateFile(path); err != nil {
		return cmdutil.Fail(errOut, "invalid configuration", err)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file is valid: "+path))
	return nil
}
