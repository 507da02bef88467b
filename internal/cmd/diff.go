package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/blueprint"
	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/plan"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		sf   cmdutil.SelectionFlags
		tf   cmdutil.TargetFlags
		file string
	)

	c := &cobra.Command{
		Use:   "diff <project>",
		Short: "Compare an existing render.yaml with a selection",
		Long: `Compile a selection and compare the result with an existing render.yaml.

The comparison is structural: reordered keys are not reported and list
entries are matched by name.

Examples:
  create-demo diff demo --dir ./demo --frontend nextjs --api fastify --database postgres
  create-demo diff demo --file ./demo/render.yaml --api fastapi --cache redis`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, gc, args, &sf, tf.Dir, file)
		},
	}

	sf.AddTo(c)
	tf.AddTo(c, "Project directory holding the render.yaml")
	c.Flags().StringVar(&file, "file", "", "Blueprint file to compare (default <dir>/render.yaml)")

	return c
}

func runDiff(c *cobra.Command, gc *cmdtypes.GlobalConfig, args []string, sf *cmdutil.SelectionFlags, dir, file string) error {
	errOut := c.ErrOrStderr()
	cfg := gc.Config()

	if file == "" {
		file = filepath.Join(dir, plan.BlueprintFile)
	}
	existing, err := afero.ReadFile(gc.FS(), file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = oerrors.NewNotFoundError("blueprint file not found", file,
				"Use --dir or --file to point at an existing render.yaml.")
		}
		return cmdutil.Fail(errOut, "reading blueprint", err)
	}

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

	var compiled []byte
	if doc != nil {
		compiled, err = blueprint.Marshal(doc, output.FormatYAML)
		if err != nil {
			return cmdutil.Fail(errOut, "rendering blueprint", err)
		}
	}

	report, err := blueprint.Diff(existing, compiled, output.IsTTY())
	if err != nil {
		return cmdutil.Fail(errOut, "comparing blueprints", err)
	}

	out := c.OutOrStdout()
	if report == "" {
		fmt.Fprintln(out, output.FormatCheckmark("No differences."))
		return nil
	}
	fmt.Fprintln(out, report)
	return nil
}
