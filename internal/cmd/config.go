package cmd

import (
	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/cmdtypes"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Create and validate the create-demo configuration file.`,
	}

	c.AddCommand(
		NewConfigInitCmd(gc),
		NewConfigVetCmd(gc),
	)

	return c
}
