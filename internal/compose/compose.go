// Package compose runs the project compiler end to end: resolve a
// selection, aggregate rules, compile the manifest, build the scaffold plan
// and optionally execute it.
package compose

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/render-examples/create-demo/internal/blueprint"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/plan"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/resolver"
	"github.com/render-examples/create-demo/internal/rules"
	"github.com/render-examples/create-demo/internal/scaffold"
	"github.com/render-examples/create-demo/internal/templates"
)

// Composer holds the collaborators shared by every compilation.
type Composer struct {
	Registry  *registry.Registry
	Templates *templates.Store

	// Fs is the filesystem projects are created on.
	Fs afero.Fs

	// Runner executes scaffold commands. Nil uses scaffold.ExecRunner.
	Runner scaffold.CommandRunner
}

// Result is one compiled selection.
type Result struct {
	Resolved *resolver.Plan
	Rules    rules.Set

	// Document is the compiled manifest, nil when nothing deployable is
	// selected.
	Document *blueprint.Document

	// Blueprint is Document rendered as YAML.
	Blueprint []byte

	Plan *plan.Plan
}

// Compile resolves sel against the target directory baseDir and builds
// everything that would be written. It has no side effects.
func (c *Composer) Compile(sel resolver.Selection, baseDir string) (*Result, error) {
	resolved, err := resolver.New(c.Registry, c.Fs, baseDir).Resolve(sel)
	if err != nil {
		return nil, err
	}

	set := rules.Aggregate(resolved)
	doc := blueprint.Compile(resolved)
	data, err := blueprint.Marshal(doc, output.FormatYAML)
	if err != nil {
		return nil, err
	}

	p := plan.Build(resolved, plan.Options{
		Templates: c.Templates,
		Rules:     set,
		Blueprint: data,
	})

	output.Debug("project compiled",
		"project", resolved.ProjectName,
		"components", len(resolved.Components),
		"rules", len(set.Rules),
		"actions", len(p.Actions),
		"warnings", len(p.Warnings),
	)

	return &Result{
		Resolved:  resolved,
		Rules:     set,
		Document:  doc,
		Blueprint: data,
		Plan:      p,
	}, nil
}

// Manifest resolves sel without checking the target directory and compiles
// only the manifest.
func (c *Composer) Manifest(sel resolver.Selection) (*resolver.Plan, *blueprint.Document, error) {
	resolved, err := resolver.Resolve(sel, c.Registry)
	if err != nil {
		return nil, nil, err
	}
	return resolved, blueprint.Compile(resolved), nil
}

// Scaffold compiles sel and executes the plan into <baseDir>/<project>.
// Resolution errors abort before anything is written.
func (c *Composer) Scaffold(ctx context.Context, sel resolver.Selection, baseDir string, opts scaffold.Options) (*Result, *scaffold.Result, error) {
	res, err := c.Compile(sel, baseDir)
	if err != nil {
		return nil, nil, err
	}

	runner := c.Runner
	if runner == nil {
		runner = scaffold.ExecRunner{}
	}
	exec := &scaffold.Executor{
		Fs:        c.Fs,
		Templates: c.Templates,
		Runner:    runner,
		Options:   opts,
	}

	done, err := exec.Execute(ctx, res.Resolved.Dir, res.Plan)
	if err != nil {
		return res, done, fmt.Errorf("creating %s: %w", res.Resolved.ProjectName, err)
	}
	return res, done, nil
}
