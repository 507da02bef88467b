// Package resolver validates a component selection against the registry and
// binds every selected component to a collision-free subdirectory.
package resolver

import (
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/templates"
)

// FrontendDir is the fixed subdirectory of the frontend.
const FrontendDir = "frontend"

// Extras accepted in a selection.
const (
	ExtraEnv    = "env"
	ExtraDocker = "docker"
)

// KnownExtras lists the accepted extras.
func KnownExtras() []string {
	return []string{ExtraEnv, ExtraDocker}
}

// Selection is the user's choice of components for a new project.
type Selection struct {
	ProjectName string
	// Frontend is empty when no frontend is wanted.
	Frontend string
	// DeployType defaults to static when a frontend is selected.
	DeployType registry.DeployType
	APIs       []string
	Workers    []string
	Database   string
	Cache      string
	Extras     []string
}

// Empty reports whether nothing but a name was chosen.
func (s Selection) Empty() bool {
	return s.Frontend == "" && len(s.APIs) == 0 && len(s.Workers) == 0 &&
		s.Database == "" && s.Cache == ""
}

// WithPreset merges a preset into the selection. Fields already chosen win.
// The preset's deploy type only applies to the preset's own frontend. List
// entries are joined, preset entries first, without repeats.
func (s Selection) WithPreset(p *registry.Preset) Selection {
	if p == nil {
		return s
	}
	if s.Frontend == "" {
		s.Frontend = p.Frontend
	}
	if s.DeployType == "" && s.Frontend == p.Frontend {
		s.DeployType = p.Deploy
	}
	if s.Database == "" {
		s.Database = p.Database
	}
	if s.Cache == "" {
		s.Cache = p.Cache
	}
	s.APIs = union(p.APIs, s.APIs)
	s.Workers = union(p.Workers, s.Workers)
	s.Extras = union(p.Extras, s.Extras)
	return s
}

func union(first, second []string) []string {
	if len(first) == 0 {
		return second
	}
	out := make([]string, 0, len(first)+len(second))
	seen := make(map[string]bool, len(first)+len(second))
	for _, v := range append(append([]string{}, first...), second...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ResolvedComponent is a frontend, API or worker bound to its subdirectory.
// Exactly one of Frontend, API and Worker is set, matching Kind.
type ResolvedComponent struct {
	Kind    registry.Kind
	ID      string
	Subdir  string
	Runtime registry.Runtime

	Frontend *registry.Frontend
	API      *registry.API
	Worker   *registry.Worker
}

// Meta returns the shared component fields.
func (c ResolvedComponent) Meta() *registry.Base {
	switch c.Kind {
	case registry.KindFrontend:
		return c.Frontend.Meta()
	case registry.KindAPI:
		return c.API.Meta()
	default:
		return c.Worker.Meta()
	}
}

// Overlay returns the with-database overlay, or nil.
func (c ResolvedComponent) Overlay() *registry.Overlay {
	switch c.Kind {
	case registry.KindAPI:
		return c.API.WithDatabase
	case registry.KindWorker:
		return c.Worker.WithDatabase
	default:
		return nil
	}
}

// Plan is a validated selection. Components are ordered frontend first,
// then APIs and workers in selection order.
type Plan struct {
	ProjectName string
	// Dir is the target project directory.
	Dir        string
	DeployType registry.DeployType
	Components []ResolvedComponent
	Database   *registry.Database
	Cache      *registry.Cache
	Extras     []string
}

// Frontend returns the resolved frontend, if any.
func (p *Plan) Frontend() (ResolvedComponent, bool) {
	for _, c := range p.Components {
		if c.Kind == registry.KindFrontend {
			return c, true
		}
	}
	return ResolvedComponent{}, false
}

// OfKind returns the components of one kind in plan order.
func (p *Plan) OfKind(kind registry.Kind) []ResolvedComponent {
	var out []ResolvedComponent
	for _, c := range p.Components {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// HasDatabase reports whether a database is selected.
func (p *Plan) HasDatabase() bool { return p.Database != nil }

// HasCache reports whether a cache is selected.
func (p *Plan) HasCache() bool { return p.Cache != nil }

// HasExtra reports whether an extra was requested.
func (p *Plan) HasExtra(name string) bool {
	for _, e := range p.Extras {
		if e == name {
			return true
		}
	}
	return false
}

// Vars are the template variables of the project.
func (p *Plan) Vars() map[string]string {
	return map[string]string{templates.VarProjectName: p.ProjectName}
}

// DatabaseName is the database name template with the project substituted.
func (p *Plan) DatabaseName() string {
	if p.Database == nil {
		return ""
	}
	return templates.Substitute(p.Database.NameTemplate, p.Vars())
}

// CacheName is the cache name template with the project substituted.
func (p *Plan) CacheName() string {
	if p.Cache == nil {
		return ""
	}
	return templates.Substitute(p.Cache.NameTemplate, p.Vars())
}
