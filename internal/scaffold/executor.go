// Package scaffold executes a scaffold plan against a filesystem.
package scaffold

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/plan"
)

// Renderer renders a template with variables.
type Renderer interface {
	Render(path string, vars map[string]string) ([]byte, error)
}

// Options tune execution.
type Options struct {
	// SkipInstall skips install actions and replaces run actions with their
	// fallback.
	SkipInstall bool

	// DryRun logs every action without touching the filesystem.
	DryRun bool
}

// Executor runs plan actions one at a time in plan order.
type Executor struct {
	Fs        afero.Fs
	Templates Renderer
	Runner    CommandRunner
	Options   Options
}

// Result reports what the execution did.
type Result struct {
	// Done lists the executed actions.
	Done []plan.Action

	// Skipped lists actions not executed, with installs off or a template missing.
	Skipped []plan.Action

	// Warnings are the non-fatal problems, including those found at plan time.
	Warnings []error
}

// Execute runs p with root as the project directory. Plan warnings are
// logged and carried into the result. The first failing action aborts.
func (e *Executor) Execute(ctx context.Context, root string, p *plan.Plan) (*Result, error) {
	res := &Result{}
	for _, w := range p.Warnings {
		output.Warn("template not found, skipping", "component", w.Component, "template", w.Template, "path", w.Path)
		res.Warnings = append(res.Warnings, w)
	}

	for _, a := range p.Actions {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if e.Options.DryRun {
			output.Info("would "+a.String(), "component", a.Component)
			res.Done = append(res.Done, a)
			continue
		}

		done, err := e.run(ctx, root, a, res)
		if err != nil {
			if a.Component != "" {
				return res, fmt.Errorf("scaffolding %s: %w", a.Component, err)
			}
			return res, err
		}
		if done {
			res.Done = append(res.Done, a)
		} else {
			res.Skipped = append(res.Skipped, a)
		}
	}
	return res, nil
}

// run executes one action and reports whether it ran.
func (e *Executor) run(ctx context.Context, root string, a plan.Action, res *Result) (bool, error) {
	output.Debug("executing action", "action", a.String(), "component", a.Component)
	target := filepath.Join(root, filepath.FromSlash(a.Path))

	switch a.Kind {
	case plan.ActionMkdir:
		if err := e.Fs.MkdirAll(target, 0o755); err != nil {
			return false, fmt.Errorf("creating %s: %w", a.Path, err)
		}
		return true, nil

	case plan.ActionRun:
		if e.Options.SkipInstall {
			if a.Fallback == nil {
				return false, nil
			}
			return e.run(ctx, root, *a.Fallback, res)
		}
		return true, e.command(ctx, root, a)

	case plan.ActionInstall:
		if e.Options.SkipInstall {
			return false, nil
		}
		return true, e.command(ctx, root, a)

	case plan.ActionWriteFile:
		return true, e.write(target, a.Path, a.Content, a.Append)

	case plan.ActionCopyTemplate:
		content, err := e.Templates.Render(a.Template, a.Vars)
		if errors.Is(err, oerrors.ErrTemplateMissing) {
			output.Warn("template not found, skipping", "component", a.Component, "template", a.Template, "path", a.Path)
			res.Warnings = append(res.Warnings, err)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, e.write(target, a.Path, content, a.Append)

	case plan.ActionMergeScripts:
		return true, e.mergeScripts(target, a.Path, a.Scripts)

	case plan.ActionDelete:
		if err := e.Fs.RemoveAll(target); err != nil {
			return false, fmt.Errorf("deleting %s: %w", a.Path, err)
		}
		return true, nil

	default:
		return false, fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

func (e *Executor) command(ctx context.Context, root string, a plan.Action) error {
	dir := filepath.Join(root, filepath.FromSlash(a.Dir))
	title := a.String()
	if a.Component != "" {
		title = fmt.Sprintf("%s: %s", a.Component, title)
	}
	return output.RunWithSpinner(ctx, func() error {
		return e.Runner.Run(ctx, dir, a.Command)
	}, output.WithTitle(title))
}

func (e *Executor) write(target, rel string, content []byte, appendTo bool) error {
	if err := e.Fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if appendTo {
		existing, err := afero.ReadFile(e.Fs, target)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		if len(existing) > 0 && existing[len(existing)-1] != '\n' {
			existing = append(existing, '\n')
		}
		content = append(existing, content...)
	}
	if err := afero.WriteFile(e.Fs, target, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// mergeScripts adds scripts to a package.json, replacing scripts with the
// same name and keeping every other field.
func (e *Executor) mergeScripts(target, rel string, scripts map[string]string) error {
	doc := make(map[string]json.RawMessage)
	data, err := afero.ReadFile(e.Fs, target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		output.Warn("package.json missing, creating it", "path", rel)
		doc["name"], _ = json.Marshal(path.Base(path.Dir(rel)))
	case err != nil:
		return fmt.Errorf("reading %s: %w", rel, err)
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing %s: %w", rel, err)
		}
	}

	merged := make(map[string]string)
	if raw, ok := doc["scripts"]; ok {
		if err := json.Unmarshal(raw, &merged); err != nil {
			return fmt.Errorf("parsing scripts in %s: %w", rel, err)
		}
	}
	for k, v := range scripts {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encoding scripts for %s: %w", rel, err)
	}
	doc["scripts"] = raw

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", rel, err)
	}
	return e.write(target, rel, append(out, '\n'), false)
}
