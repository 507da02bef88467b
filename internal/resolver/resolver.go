package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"

	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/registry"
)

var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Resolver turns selections into plans.
type Resolver struct {
	Registry *registry.Registry

	// Fs is used to check that the target directory does not exist yet.
	// A nil Fs skips the check.
	Fs afero.Fs

	// BaseDir is the directory the project is created in.
	BaseDir string
}

// New creates a resolver that checks target directories under baseDir.
func New(reg *registry.Registry, fsys afero.Fs, baseDir string) *Resolver {
	return &Resolver{Registry: reg, Fs: fsys, BaseDir: baseDir}
}

// Resolve validates sel against reg without touching the filesystem.
func Resolve(sel Selection, reg *registry.Registry) (*Plan, error) {
	return (&Resolver{Registry: reg}).Resolve(sel)
}

// Resolve validates sel and returns a plan. The first problem found is
// returned, checked in the order name, frontend, APIs, workers, database,
// cache, extras. No filesystem state is changed.
func (r *Resolver) Resolve(sel Selection) (*Plan, error) {
	dir := filepath.Join(r.BaseDir, sel.ProjectName)
	if err := r.checkName(sel.ProjectName, dir); err != nil {
		return nil, err
	}

	plan := &Plan{
		ProjectName: sel.ProjectName,
		Dir:         dir,
	}

	claimed := make(subdirClaims)
	if err := r.resolveFrontend(sel, plan, claimed); err != nil {
		return nil, err
	}
	if err := r.resolveAPIs(sel.APIs, plan, claimed); err != nil {
		return nil, err
	}
	if err := r.resolveWorkers(sel.Workers, plan, claimed); err != nil {
		return nil, err
	}

	if sel.Database != "" {
		db, ok := r.Registry.Database(sel.Database)
		if !ok {
			return nil, oerrors.NewUnknownComponentError(string(registry.KindDatabase), sel.Database, r.Registry.IDs(registry.KindDatabase))
		}
		plan.Database = db
	}

	if sel.Cache != "" {
		c, ok := r.Registry.Cache(sel.Cache)
		if !ok {
			return nil, oerrors.NewUnknownComponentError(string(registry.KindCache), sel.Cache, r.Registry.IDs(registry.KindCache))
		}
		plan.Cache = c
	}

	extras, err := resolveExtras(sel.Extras)
	if err != nil {
		return nil, err
	}
	plan.Extras = extras

	output.Debug("resolved selection",
		"project", plan.ProjectName,
		"components", len(plan.Components),
		"database", sel.Database,
		"cache", sel.Cache,
	)
	return plan, nil
}

func (r *Resolver) checkName(name, dir string) error {
	switch {
	case name == "":
		return oerrors.NewInvalidProjectNameError(name, "", "must not be empty")
	case !projectNamePattern.MatchString(name):
		return oerrors.NewInvalidProjectNameError(name, "", "may only contain letters, digits, '-' and '_'")
	}

	if r.Fs == nil {
		return nil
	}
	_, err := r.Fs.Stat(dir)
	switch {
	case err == nil:
		return oerrors.NewInvalidProjectNameError(name, dir, "target directory already exists")
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking target directory %s: %w", dir, err)
	}
}

// subdirClaims maps a project subdirectory to the component writing it.
type subdirClaims map[string]ResolvedComponent

func (c subdirClaims) claim(rc ResolvedComponent) error {
	if first, taken := c[rc.Subdir]; taken {
		if first.Kind == registry.KindWorker && rc.Kind == registry.KindWorker {
			return oerrors.NewDuplicateWorkerError(first.ID, rc.ID, rc.Subdir)
		}
		return oerrors.NewSubdirConflictError(
			fmt.Sprintf("%s %q", first.Kind, first.ID),
			fmt.Sprintf("%s %q", rc.Kind, rc.ID),
			rc.Subdir)
	}
	c[rc.Subdir] = rc
	return nil
}

func (r *Resolver) resolveFrontend(sel Selection, plan *Plan, claimed subdirClaims) error {
	if sel.Frontend == "" {
		return nil
	}
	f, ok := r.Registry.Frontend(sel.Frontend)
	if !ok {
		return oerrors.NewUnknownComponentError(string(registry.KindFrontend), sel.Frontend, r.Registry.IDs(registry.KindFrontend))
	}

	deploy := sel.DeployType
	if deploy == "" {
		deploy = registry.DeployStatic
	}
	if !f.Supports(deploy) {
		supported := make([]string, 0, 2)
		for _, d := range f.DeployTypes() {
			supported = append(supported, string(d))
		}
		return oerrors.NewUnsupportedVariantError(f.ID, string(deploy), supported)
	}

	rc := ResolvedComponent{
		Kind:     registry.KindFrontend,
		ID:       f.ID,
		Subdir:   FrontendDir,
		Runtime:  registry.RuntimeNode,
		Frontend: f,
	}
	if err := claimed.claim(rc); err != nil {
		return err
	}
	plan.DeployType = deploy
	plan.Components = append(plan.Components, rc)
	return nil
}

func (r *Resolver) resolveAPIs(ids []string, plan *Plan, claimed subdirClaims) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		a, ok := r.Registry.API(id)
		if !ok {
			return oerrors.NewUnknownComponentError(string(registry.KindAPI), id, r.Registry.IDs(registry.KindAPI))
		}
		if seen[id] {
			return &oerrors.DetailError{
				Type:    "duplicate component",
				Message: fmt.Sprintf("api %q selected more than once", id),
				Field:   "apis",
				Cause:   oerrors.ErrDuplicateComponent,
			}
		}
		seen[id] = true

		rc := ResolvedComponent{
			Kind:    registry.KindAPI,
			ID:      id,
			Subdir:  a.Subdir,
			Runtime: a.Runtime,
			API:     a,
		}
		if err := claimed.claim(rc); err != nil {
			return err
		}
		plan.Components = append(plan.Components, rc)
	}
	return nil
}

func (r *Resolver) resolveWorkers(ids []string, plan *Plan, claimed subdirClaims) error {
	for _, id := range ids {
		w, ok := r.Registry.Worker(id)
		if !ok {
			return oerrors.NewUnknownComponentError(string(registry.KindWorker), id, r.Registry.IDs(registry.KindWorker))
		}

		rc := ResolvedComponent{
			Kind:    registry.KindWorker,
			ID:      id,
			Subdir:  WorkerSubdir(w),
			Runtime: w.Runtime,
			Worker:  w,
		}
		if err := claimed.claim(rc); err != nil {
			return err
		}
		plan.Components = append(plan.Components, rc)
	}
	return nil
}

// WorkerSubdir returns the declared subdirectory suffixed with the runtime tag.
func WorkerSubdir(w *registry.Worker) string {
	return w.Subdir + "-" + w.Runtime.Tag()
}

func resolveExtras(extras []string) ([]string, error) {
	known := make(map[string]bool)
	for _, e := range KnownExtras() {
		known[e] = true
	}

	var out []string
	seen := make(map[string]bool, len(extras))
	for _, e := range extras {
		if !known[e] {
			return nil, oerrors.NewUnknownComponentError("extra", e, KnownExtras())
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, nil
}
