package plan

import (
	"encoding/json"
	"strings"

	"github.com/render-examples/create-demo/internal/registry"
)

// DependencyVersion is the version written for every generated dependency.
const DependencyVersion = "latest"

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// PackageJSON renders a package descriptor for the given lists.
func PackageJSON(name string, pkgs registry.Packages) []byte {
	doc := packageJSON{
		Name:            name,
		Version:         "0.1.0",
		Private:         true,
		Type:            "module",
		Scripts:         pkgs.Scripts,
		Dependencies:    versions(pkgs.Dependencies),
		DevDependencies: versions(pkgs.DevDependencies),
	}
	if len(doc.Scripts) == 0 {
		doc.Scripts = nil
	}
	// Marshalling a struct of strings and maps cannot fail.
	data, _ := json.MarshalIndent(doc, "", "  ")
	return append(data, '\n')
}

// Requirements renders a requirements.txt, one package per line.
func Requirements(deps []string) []byte {
	deps = unique(deps)
	if len(deps) == 0 {
		return nil
	}
	return []byte(strings.Join(deps, "\n") + "\n")
}

func versions(deps []string) map[string]string {
	if len(deps) == 0 {
		return nil
	}
	out := make(map[string]string, len(deps))
	for _, d := range deps {
		out[d] = DependencyVersion
	}
	return out
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
