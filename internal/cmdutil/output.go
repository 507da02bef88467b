package cmdutil

import (
	"errors"
	"fmt"
	"io"

	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/plan"
)

// PrintError reports err in a user-friendly format. Structured errors are
// printed as their multi-line detail block; others use the key-value log
// format.
func PrintError(w io.Writer, msg string, err error) {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		fmt.Fprintln(w, detail.Error())
		return
	}
	output.Error(msg, "error", err)
}

// Fail prints err and returns it wrapped with its exit code, marked as
// already printed.
func Fail(w io.Writer, msg string, err error) error {
	PrintError(w, msg, err)
	return &oerrors.ExitError{
		Err:     err,
		Code:    oerrors.ExitCodeFromError(err),
		Printed: true,
	}
}

// WriteFileTree writes the files a plan creates as a tree rooted at project.
func WriteFileTree(w io.Writer, project string, p *plan.Plan) {
	fmt.Fprintln(w, output.RenderFileTree(project, p.Files()))
}

// WriteWarningCount logs how many non-fatal problems the executor reported.
// Each one was already logged when it happened.
func WriteWarningCount(warnings []error) {
	if len(warnings) > 0 {
		output.Warn(fmt.Sprintf("completed with %d warning(s)", len(warnings)))
	}
}
