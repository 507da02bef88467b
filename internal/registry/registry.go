package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	oerrors "github.com/render-examples/create-demo/internal/errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultLocation names the embedded catalog in error messages.
const DefaultLocation = "<embedded catalog>"

// catalog is the on-disk shape of a registry file.
type catalog struct {
	Frontends map[string]*Frontend `json:"frontends"`
	APIs      map[string]*API      `json:"apis"`
	Workers   map[string]*Worker   `json:"workers"`
	Databases map[string]*Database `json:"databases"`
	Caches    map[string]*Cache    `json:"caches"`
	Presets   map[string]*Preset   `json:"presets"`
}

// Registry is a validated, read-only component catalog. It is loaded once
// and passed explicitly to everything that resolves a selection.
type Registry struct {
	location  string
	frontends map[string]*Frontend
	apis      map[string]*API
	workers   map[string]*Worker
	databases map[string]*Database
	caches    map[string]*Cache
	presets   map[string]*Preset
}

// Default loads the embedded catalog.
func Default() (*Registry, error) {
	return Load(defaultCatalog, DefaultLocation)
}

// LoadFile loads a catalog file (YAML or JSON) from fsys.
func LoadFile(fsys afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("registry file does not exist", path, "Check the registry setting or --registry flag.")
		}
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	return Load(data, path)
}

// Load decodes and validates a catalog. Unknown fields are rejected.
func Load(data []byte, location string) (*Registry, error) {
	var c catalog
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, oerrors.NewRegistryError(location, []string{err.Error()})
	}

	r := &Registry{
		location:  location,
		frontends: c.Frontends,
		apis:      c.APIs,
		workers:   c.Workers,
		databases: c.Databases,
		caches:    c.Caches,
		presets:   c.Presets,
	}
	r.assignIDs()

	if problems := r.validate(); len(problems) > 0 {
		return nil, oerrors.NewRegistryError(location, problems)
	}
	return r, nil
}

// Location returns where the catalog was loaded from.
func (r *Registry) Location() string {
	return r.location
}

// assignIDs copies the catalog keys into the entries. Null entries are
// left for validate to report.
func (r *Registry) assignIDs() {
	for id, c := range r.frontends {
		if c != nil {
			c.ID = id
		}
	}
	for id, c := range r.apis {
		if c != nil {
			c.ID = id
		}
	}
	for id, c := range r.workers {
		if c != nil {
			c.ID = id
		}
	}
	for id, c := range r.databases {
		if c != nil {
			c.ID = id
		}
	}
	for id, c := range r.caches {
		if c != nil {
			c.ID = id
		}
	}
	for id, p := range r.presets {
		if p != nil {
			p.ID = id
		}
	}
}

// Frontend looks up a frontend by id.
func (r *Registry) Frontend(id string) (*Frontend, bool) {
	c, ok := r.frontends[id]
	return c, ok
}

// API looks up an API by id.
func (r *Registry) API(id string) (*API, bool) {
	c, ok := r.apis[id]
	return c, ok
}

// Worker looks up a worker by id.
func (r *Registry) Worker(id string) (*Worker, bool) {
	c, ok := r.workers[id]
	return c, ok
}

// Database looks up a database by id.
func (r *Registry) Database(id string) (*Database, bool) {
	c, ok := r.databases[id]
	return c, ok
}

// Cache looks up a cache by id.
func (r *Registry) Cache(id string) (*Cache, bool) {
	c, ok := r.caches[id]
	return c, ok
}

// Preset looks up a preset by id.
func (r *Registry) Preset(id string) (*Preset, bool) {
	p, ok := r.presets[id]
	return p, ok
}

// PresetIDs returns the sorted preset ids.
func (r *Registry) PresetIDs() []string {
	return keys(r.presets)
}

// Presets returns every preset sorted by id.
func (r *Registry) Presets() []*Preset {
	out := make([]*Preset, 0, len(r.presets))
	for _, id := range keys(r.presets) {
		out = append(out, r.presets[id])
	}
	return out
}

// Lookup finds a component of any kind.
func (r *Registry) Lookup(kind Kind, id string) (Component, bool) {
	switch kind {
	case KindFrontend:
		if c, ok := r.frontends[id]; ok {
			return c, true
		}
	case KindAPI:
		if c, ok := r.apis[id]; ok {
			return c, true
		}
	case KindWorker:
		if c, ok := r.workers[id]; ok {
			return c, true
		}
	case KindDatabase:
		if c, ok := r.databases[id]; ok {
			return c, true
		}
	case KindCache:
		if c, ok := r.caches[id]; ok {
			return c, true
		}
	}
	return nil, false
}

// IDs returns the sorted ids of one kind.
func (r *Registry) IDs(kind Kind) []string {
	var ids []string
	switch kind {
	case KindFrontend:
		ids = keys(r.frontends)
	case KindAPI:
		ids = keys(r.apis)
	case KindWorker:
		ids = keys(r.workers)
	case KindDatabase:
		ids = keys(r.databases)
	case KindCache:
		ids = keys(r.caches)
	}
	return ids
}

// Components returns every component, grouped by kind in display order and
// sorted by id within a kind.
func (r *Registry) Components() []Component {
	var out []Component
	for _, kind := range Kinds() {
		for _, id := range r.IDs(kind) {
			c, _ := r.Lookup(kind, id)
			out = append(out, c)
		}
	}
	return out
}

func keys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
