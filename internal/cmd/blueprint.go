package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/blueprint"
	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
)

// NewBlueprintCmd creates the blueprint command.
func NewBlueprintCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		sf     cmdutil.SelectionFlags
		format string
	)

	c := &cobra.Command{
		Use:   "blueprint <project>",
		Short: "Print the render.yaml for a selection",
		Long: `Compile a selection into its render.yaml blueprint and print it.
Nothing is written. A selection with nothing deployable prints nothing.

Examples:
  create-demo blueprint demo --frontend nextjs --api fastify --database postgres
  create-demo blueprint demo --api fastapi -o json
  create-demo blueprint demo --preset multi-api`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runBlueprint(c, gc, args, &sf, format)
		},
	}

	sf.AddTo(c)
	c.Flags().StringVarP(&format, "output", "o", "yaml",
		"Output format: "+strings.Join(output.ValidBlueprintFormats(), ", "))

	return c
}

func runBlueprint(c *cobra.Command, gc *cmdtypes.GlobalConfig, args []string, sf *cmdutil.SelectionFlags, format string) error {
	errOut := c.ErrOrStderr()

	if !slices.Contains(output.ValidBlueprintFormats(), format) {
		return cmdutil.Fail(errOut, "invalid output format", oerrors.NewValidationError(
			fmt.Sprintf("unsupported output format %q", format), "", "output",
			"Use one of: "+strings.Join(output.ValidBlueprintFormats(), ", ")))
	}

	cfg := gc.Config()
	composer, err := cmdutil.NewComposer(gc.FS(), cfg, nil)
	if err != nil {
		return cmdutil.Fail(errOut, "loading components", err)
	}

	sel, err := sf.Selection(c, args[0], cfg, composer.Registry)
	if err != nil {
		return cmdutil.Fail(errOut, "resolving selection", err)
	}
	_, doc, err := composer.Manifest(sel)
	if err != nil {
		return cmdutil.Fail(errOut, "resolving selection", err)
	}
	if doc == nil {
		output.Warn("nothing deployable selected, no blueprint to print")
		return nil
	}

	data, err := blueprint.Marshal(doc, output.ParseFormat(format))
	if err != nil {
		return cmdutil.Fail(errOut, "rendering blueprint", err)
	}
	_, err = c.OutOrStdout().Write(data)
	return err
}
