package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff is a single line of a unified-style text diff.
type LineDiff struct {
	Op   diffmatchpatch.Operation
	Text string
}

// DiffLines computes a line-level diff between two texts.
func DiffLines(oldText, newText string) []LineDiff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []LineDiff
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, LineDiff{Op: d.Type, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// HasChanges reports whether any line was inserted or deleted.
func HasChanges(diffs []LineDiff) bool {
	for _, d := range diffs {
		if d.Op != diffmatchpatch.DiffEqual {
			return true
		}
	}
	return false
}

// RenderLineDiff renders the changed lines of a diff with +/- markers.
// Unchanged lines are omitted.
func RenderLineDiff(oldText, newText string) string {
	var sb strings.Builder
	for _, d := range DiffLines(oldText, newText) {
		switch d.Op {
		case diffmatchpatch.DiffInsert:
			sb.WriteString(StyleAdded.Render("+ " + d.Text))
			sb.WriteString("\n")
		case diffmatchpatch.DiffDelete:
			sb.WriteString(StyleRemoved.Render("- " + d.Text))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
