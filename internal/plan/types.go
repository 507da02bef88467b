// Package plan turns a resolved selection into an ordered list of scaffold
// actions. Actions are descriptions only; internal/scaffold executes them.
package plan

import (
	"fmt"
	"strings"
)

// ActionKind identifies what an action does.
type ActionKind string

const (
	// ActionMkdir creates Path and its parents.
	ActionMkdir ActionKind = "mkdir"

	// ActionRun runs Command in Dir. With installs skipped, Fallback runs instead.
	ActionRun ActionKind = "run"

	// ActionInstall runs a package manager command in Dir. Skipped with installs off.
	ActionInstall ActionKind = "install"

	// ActionWriteFile writes Content to Path.
	ActionWriteFile ActionKind = "write"

	// ActionCopyTemplate renders Template with Vars into Path. Nil Vars copies verbatim.
	ActionCopyTemplate ActionKind = "copy"

	// ActionMergeScripts merges Scripts into the package.json at Path.
	ActionMergeScripts ActionKind = "merge-scripts"

	// ActionDelete removes Path if present.
	ActionDelete ActionKind = "delete"
)

// Action is one scaffold step. Paths are slash-separated and relative to the
// project directory.
type Action struct {
	Kind ActionKind

	// Component is the owning component id, empty for project-level files.
	Component string

	Path     string
	Template string
	Vars     map[string]string
	Content  []byte

	// Append concatenates to an existing file instead of replacing it.
	Append bool

	Command []string
	Dir     string

	Scripts map[string]string

	Fallback *Action

	// Description annotates the file tree shown after scaffolding.
	Description string
}

// String renders a one-line summary for dry runs and debug logs.
func (a Action) String() string {
	switch a.Kind {
	case ActionRun, ActionInstall:
		dir := a.Dir
		if dir == "" {
			dir = "."
		}
		return fmt.Sprintf("%s [%s] %s", a.Kind, dir, strings.Join(a.Command, " "))
	case ActionCopyTemplate:
		mode := ""
		if a.Append {
			mode = " (append)"
		}
		return fmt.Sprintf("%s %s -> %s%s", a.Kind, a.Template, a.Path, mode)
	case ActionMergeScripts:
		return fmt.Sprintf("%s %s (%d scripts)", a.Kind, a.Path, len(a.Scripts))
	default:
		return fmt.Sprintf("%s %s", a.Kind, a.Path)
	}
}

// Warning is a non-fatal problem found while building the plan.
type Warning struct {
	Component string
	Template  string
	Path      string
	Err       error
}

func (w Warning) Error() string {
	return w.Err.Error()
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Plan is the ordered scaffold of one project.
type Plan struct {
	Actions  []Action
	Warnings []Warning
}

// Files maps every path the plan creates to a short description. Directories
// carry a trailing slash.
func (p *Plan) Files() map[string]string {
	out := make(map[string]string)
	for _, a := range p.Actions {
		switch a.Kind {
		case ActionMkdir:
			if a.Path != "." && a.Path != "" {
				if _, ok := out[a.Path+"/"]; !ok {
					out[a.Path+"/"] = a.Description
				}
			}
		case ActionWriteFile, ActionCopyTemplate:
			if _, ok := out[a.Path]; !ok || a.Description != "" {
				out[a.Path] = a.Description
			}
		case ActionRun:
			if a.Fallback != nil && a.Fallback.Kind == ActionWriteFile {
				out[a.Fallback.Path] = a.Fallback.Description
			}
		}
	}
	return out
}

// OfKind returns the actions of one kind in plan order.
func (p *Plan) OfKind(kind ActionKind) []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
