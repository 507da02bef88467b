package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/rules"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		tf     cmdutil.TargetFlags
		force  bool
		dryRun bool
	)

	c := &cobra.Command{
		Use:   "sync",
		Short: "Update out-of-sync rule and config files from the templates",
		Long: `Rewrite every out-of-sync rule and tracked config file of a project
with the current template content. Custom files are never touched.

The changes are shown before anything is written and confirmation is
asked unless --force is set.

Examples:
  create-demo sync --dry-run
  create-demo sync --dir ./demo --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runSync(c, gc, tf.Dir, force, dryRun)
		},
	}

	tf.AddTo(c, "Project directory to sync")
	c.Flags().BoolVarP(&force, "force", "f", false, "Write without asking for confirmation")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing them")

	return c
}

func runSync(c *cobra.Command, gc *cmdtypes.GlobalConfig, dir string, force, dryRun bool) error {
	errOut := c.ErrOrStderr()
	out := c.OutOrStdout()

	files, err := compareProject(gc, dir)
	if err != nil {
		return cmdutil.Fail(errOut, "checking project", err)
	}

	var drifted []rules.FileStatus
	for _, f := range files {
		if f.Status == rules.StatusOutOfSync {
			drifted = append(drifted, f)
		}
	}
	if len(drifted) == 0 {
		fmt.Fprintln(out, output.FormatCheckmark("All files are up to date."))
		return nil
	}

	for _, f := range drifted {
		fmt.Fprintln(out, output.StyleAction.Render("~ ")+output.StyleNoun.Render(f.Path))
		fmt.Fprintln(out, f.Diff())
		fmt.Fprintln(out)
	}

	if dryRun {
		fmt.Fprintln(out, output.StyleDim.Render(fmt.Sprintf("Dry run: would update %d file(s).", len(drifted))))
		return nil
	}

	if !force && !confirm(c.InOrStdin(), out, fmt.Sprintf("Update %d file(s)?", len(drifted))) {
		fmt.Fprintln(out, output.StyleDim.Render("Aborted, nothing was written."))
		return nil
	}

	updated, err := rules.Sync(gc.FS(), dir, drifted)
	if err != nil {
		return cmdutil.Fail(errOut, "syncing files", err)
	}
	for _, p := range updated {
		fmt.Fprintln(out, output.FormatFileLine(p, output.StatusInSync))
	}
	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("Updated %d file(s)", len(updated))))
	return nil
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
