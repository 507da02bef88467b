package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/render-examples/create-demo/internal/cmdtypes"
	"github.com/render-examples/create-demo/internal/cmdutil"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/rules"
)

// NewCheckCmd creates the check command.
func NewCheckCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		tf cmdutil.TargetFlags
		ci bool
	)

	c := &cobra.Command{
		Use:   "check",
		Short: "Compare project rule and config files with the templates",
		Long: `Compare the editor rule files and tracked config files of a project
with the current templates.

Files without a matching template are reported as custom and never
changed. With --ci the command exits with code 7 when a file is out of sync.

Examples:
  create-demo check
  create-demo check --dir ./demo --ci`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runCheck(c, gc, tf.Dir, ci)
		},
	}

	tf.AddTo(c, "Project directory to check")
	c.Flags().BoolVar(&ci, "ci", false, "Exit with a non-zero code when files are out of sync")

	return c
}

func runCheck(c *cobra.Command, gc *cmdtypes.GlobalConfig, dir string, ci bool) error {
	errOut := c.ErrOrStderr()

	files, err := compareProject(gc, dir)
	if err != nil {
		return cmdutil.Fail(errOut, "checking project", err)
	}

	out := c.OutOrStdout()
	summary := writeFileStatuses(out, files)

	if ci {
		if err := rules.ErrIfOutOfSync(summary); err != nil {
			return cmdutil.Fail(errOut, "project out of sync", err)
		}
	}
	return nil
}

// compareProject compares dir with the configured template store.
func compareProject(gc *cmdtypes.GlobalConfig, dir string) ([]rules.FileStatus, error) {
	store, err := cmdutil.LoadTemplates(gc.FS(), gc.Config())
	if err != nil {
		return nil, err
	}
	output.Debug("comparing project files", "dir", dir)
	return rules.Compare(store, gc.FS(), dir)
}

// writeFileStatuses prints one line per file followed by the counts.
func writeFileStatuses(w io.Writer, files []rules.FileStatus) rules.Summary {
	summary := rules.Summarize(files)
	if len(files) == 0 {
		fmt.Fprintln(w, output.StyleDim.Render("No rule or config files found."))
		return summary
	}

	for _, f := range files {
		fmt.Fprintln(w, output.FormatFileLine(f.Path, displayStatus(f.Status)))
	}
	fmt.Fprintln(w)

	counts := []string{
		output.FormatCount(summary.InSync, output.StatusInSync),
		output.FormatCount(summary.OutOfSync, output.StatusOutOfSync),
	}
	if summary.Custom > 0 {
		counts = append(counts, output.FormatCount(summary.Custom, output.StatusCustom))
	}
	fmt.Fprintln(w, strings.Join(counts, output.StyleDim.Render(", ")))
	return summary
}

func displayStatus(s rules.Status) string {
	switch s {
	case rules.StatusInSync:
		return output.StatusInSync
	case rules.StatusOutOfSync:
		return output.StatusOutOfSync
	default:
		return output.StatusCustom
	}
}
