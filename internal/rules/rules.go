// Package rules aggregates the editor rule and lint config identifiers of a
// resolved selection and maps them to project files.
package rules

import (
	"path"
	"sort"

	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/resolver"
)

// BaseRule is always the first rule.
const BaseRule = "general"

// RulesDir holds rule files inside a project.
const RulesDir = ".cursor/rules"

// Set is the aggregated outcome. Rules keep first-seen order; Configs are
// sorted since their order carries no meaning.
type Set struct {
	Rules   []string
	Configs []string
}

// Aggregate collects the rules of the frontend, each API and each worker in
// plan order, then the database and cache. Database overlay rules are only
// added when a database is selected. Later duplicates are dropped.
func Aggregate(p *resolver.Plan) Set {
	rules := newOrdered()
	rules.add(BaseRule)
	configs := make(map[string]bool)

	for _, c := range p.Components {
		meta := c.Meta()
		rules.add(meta.Rules...)
		if p.HasDatabase() {
			if o := c.Overlay(); o != nil {
				rules.add(o.Rules...)
			}
		}
		for _, id := range meta.Configs {
			configs[id] = true
		}
	}
	if p.Database != nil {
		rules.add(p.Database.Rules...)
		addAll(configs, p.Database.Configs)
	}
	if p.Cache != nil {
		rules.add(p.Cache.Rules...)
		addAll(configs, p.Cache.Configs)
	}

	out := make([]string, 0, len(configs))
	for id := range configs {
		out = append(out, id)
	}
	sort.Strings(out)

	return Set{Rules: rules.items, Configs: out}
}

// RuleTemplate is the template path of a rule.
func RuleTemplate(id string) string {
	return path.Join("cursor", "rules", id+".mdc")
}

// RuleTarget is the project path of a rule.
func RuleTarget(id string) string {
	return path.Join(RulesDir, id+".mdc")
}

// ConfigFile maps a config identifier to a template and a project path.
type ConfigFile struct {
	ID       string
	Template string
	Target   string
}

var configFiles = map[string][]ConfigFile{
	"biome":            {{ID: "biome", Template: "biome.json", Target: "biome.json"}},
	"ruff":             {{ID: "ruff", Template: "ruff.toml", Target: "ruff.toml"}},
	"tsconfig":         {{ID: "tsconfig", Template: "tsconfig.base.json", Target: "tsconfig.base.json"}},
	"gitignore-node":   {{ID: "gitignore-node", Template: "gitignore/node.gitignore", Target: ".gitignore"}},
	"gitignore-python": {{ID: "gitignore-python", Template: "gitignore/python.gitignore", Target: ".gitignore"}},
}

// ConfigFiles returns the files of a config identifier. Unknown ids map to
// nothing.
func ConfigFiles(id string) []ConfigFile {
	return configFiles[id]
}

// TrackedConfigs are the config files compared by check and sync. The
// .gitignore is assembled from several templates and is not tracked.
func TrackedConfigs() []ConfigFile {
	var out []ConfigFile
	for _, id := range []string{"biome", "ruff", "tsconfig"} {
		out = append(out, configFiles[id]...)
	}
	return out
}

// Rules of a registry component that are contributed only with a database.
func overlayRules(c registry.Component) []string {
	switch v := c.(type) {
	case *registry.API:
		if v.WithDatabase != nil {
			return v.WithDatabase.Rules
		}
	case *registry.Worker:
		if v.WithDatabase != nil {
			return v.WithDatabase.Rules
		}
	}
	return nil
}

// Known returns every rule id any catalog component can contribute, sorted.
func Known(reg *registry.Registry) []string {
	set := map[string]bool{BaseRule: true}
	for _, c := range reg.Components() {
		addAll(set, c.Meta().Rules)
		addAll(set, overlayRules(c))
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type ordered struct {
	seen  map[string]bool
	items []string
}

func newOrdered() *ordered {
	return &ordered{seen: make(map[string]bool)}
}

func (o *ordered) add(ids ...string) {
	for _, id := range ids {
		if id == "" || o.seen[id] {
			continue
		}
		o.seen[id] = true
		o.items = append(o.items, id)
	}
}

func addAll(set map[string]bool, ids []string) {
	for _, id := range ids {
		set[id] = true
	}
}
