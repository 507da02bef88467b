package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/scaffold"
)

// NewInitCmd creates the init command.
func NewInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		sf          cmdutil.SelectionFlags
		tf          cmdutil.TargetFlags
		skipInstall bool
		dryRun      bool
	)

	c := &cobra.Command{
		Use:   "init <project>",
		Short: "Create a new demo project",
		Long: `Create a new demo project from the selected components.

The project is created in <dir>/<project>. The command fails before
anything is written when a component is unknown, the name is invalid or
the directory already exists.

Examples:
  # Start from a preset
  create-demo init demo --preset next-fullstack

  # Preset plus a Redis cache
  create-demo init demo -p fastify-api --cache redis

  # Next.js frontend, Fastify API and Postgres
  create-demo init demo --frontend nextjs --api fastify --database postgres

  # Python API with a cron worker and Redis, without installing packages
  create-demo init demo --api fastapi --worker cron-py --cache redis --skip-install

  # Show what would be created
  create-demo init demo --frontend vite --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInit(c, gc, args, &sf, tf.Dir, skipInstall, dryRun)
		},
	}

	sf.AddTo(c)
	tf.AddTo(c, "Directory the project is created in")
	c.Flags().BoolVar(&skipInstall, "skip-install", false,
		"Skip package installs and scaffold commands (env: CREATE_DEMO_SKIP_INSTALL)")
	c.Flags().BoolVar(&dryRun, "dry-run", false,
		"Print the plan without writing anything")

	return c
}

func runInit(c *cobra.Command, gc *cmdtypes.GlobalConfig, args []string, sf *cmdutil.SelectionFlags, dir string, skipInstall, dryRun bool) error {
	cfg := gc.Config()
	errOut := c.ErrOrStderr()

	composer, err := cmdutil.NewComposer(gc.FS(), cfg, gc.Runner)
	if err != nil {
		return cmdutil.Fail(errOut, "loading components", err)
	}
	if composer.Runner == nil && gc.Verbose {
		composer.Runner = scaffold.ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr}
	}

	if !c.Flags().Changed("skip-install") {
		skipInstall = cfg.SkipInstall
	}

	sel, err := sf.Selection(c, args[0], cfg, composer.Registry)
	if err != nil {
		return cmdutil.Fail(errOut, "resolving selection", err)
	}
	res, done, err := composer.Scaffold(c.Context(), sel, dir, scaffold.Options{
		SkipInstall: skipInstall,
		DryRun:      dryRun,
	})
	if err != nil {
		return cmdutil.Fail(errOut, "creating project", err)
	}
	cmdutil.WriteWarningCount(done.Warnings)

	out := c.OutOrStdout()
	cmdutil.WriteFileTree(out, res.Resolved.ProjectName, res.Plan)

	if dryRun {
		fmt.Fprintln(out, output.StyleDim.Render("Dry run: nothing was written."))
		return nil
	}

	fmt.Fprintln(out, output.FormatCheckmark("Created "+res.Resolved.ProjectName))
	next := res.Resolved.Dir
	if rel, err := filepath.Rel(".", next); err == nil {
		next = rel
	}
	fmt.Fprintln(out, output.StyleDim.Render("Next: cd "+next))
	return nil
}
