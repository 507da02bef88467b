package scaffold

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandRunner runs an external command in a directory.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string) error
}

// ExecRunner runs commands with os/exec. Output is discarded when the
// writers are nil.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements CommandRunner.
func (r ExecRunner) Run(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", strings.Join(argv, " "), err)
	}
	return nil
}
