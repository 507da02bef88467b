package plan

import (
	"fmt"
	"path"
	"sort"
	"strings"

	oerrors "github.com/render-examples/create-demo/internal/errors"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/resolver"
	"github.com/render-examples/create-demo/internal/rules"
	"github.com/render-examples/create-demo/internal/templates"
)

// BlueprintFile is the deployment manifest written at the project root.
const BlueprintFile = "render.yaml"

// TemplateChecker reports whether a template is available.
type TemplateChecker interface {
	Exists(path string) bool
}

// Options carries the project-level inputs of a plan.
type Options struct {
	Templates TemplateChecker

	// Rules is the aggregated rule and config set.
	Rules rules.Set

	// Blueprint is the compiled manifest. Nil means no render.yaml.
	Blueprint []byte
}

type builder struct {
	resolved *resolver.Plan
	opts     Options
	plan     *Plan
}

// Build produces the ordered scaffold actions of a resolved selection:
// the project directory, each component in plan order, then project files.
// Templates missing from opts.Templates become warnings and are skipped.
func Build(resolved *resolver.Plan, opts Options) *Plan {
	b := &builder{resolved: resolved, opts: opts, plan: &Plan{}}

	b.add(Action{Kind: ActionMkdir, Path: "."})

	for _, c := range resolved.Components {
		switch c.Kind {
		case registry.KindFrontend:
			b.frontend(c)
		case registry.KindAPI, registry.KindWorker:
			b.service(c)
		}
	}

	b.projectFiles()
	return b.plan
}

func (b *builder) add(a Action) {
	b.plan.Actions = append(b.plan.Actions, a)
}

// copyTemplate adds a template copy unless the template is missing.
func (b *builder) copyTemplate(component, target, tpl string, appendTo bool) {
	if b.opts.Templates != nil && !b.opts.Templates.Exists(tpl) {
		b.plan.Warnings = append(b.plan.Warnings, Warning{
			Component: component,
			Template:  tpl,
			Path:      target,
			Err:       fmt.Errorf("template %s for %s: %w", tpl, target, oerrors.ErrTemplateMissing),
		})
		return
	}

	var vars map[string]string
	if !templates.IsBinary(tpl) {
		vars = b.resolved.Vars()
	}
	b.add(Action{
		Kind:      ActionCopyTemplate,
		Component: component,
		Path:      target,
		Template:  tpl,
		Vars:      vars,
		Append:    appendTo,
	})
}

func (b *builder) copyFiles(component, subdir string, files map[string]string) {
	for _, target := range sortedKeys(files) {
		b.copyTemplate(component, path.Join(subdir, target), files[target], false)
	}
}

func (b *builder) frontend(c resolver.ResolvedComponent) {
	f := c.Frontend
	pkgPath := path.Join(c.Subdir, "package.json")

	b.add(Action{Kind: ActionMkdir, Component: c.ID, Path: c.Subdir, Description: f.Name})

	fallback := &Action{
		Kind:      ActionWriteFile,
		Component: c.ID,
		Path:      pkgPath,
		Content: PackageJSON(b.resolved.ProjectName+"-"+c.Subdir, registry.Packages{
			Dependencies:    f.PostCreate.Dependencies,
			DevDependencies: f.PostCreate.DevDependencies,
		}),
	}
	if f.CreateCommand != "" {
		cmd := strings.ReplaceAll(f.CreateCommand, "{{SUBDIR}}", c.Subdir)
		b.add(Action{
			Kind:      ActionRun,
			Component: c.ID,
			Command:   strings.Fields(cmd),
			Fallback:  fallback,
		})
	} else {
		b.add(*fallback)
	}

	if len(f.PostCreate.Dependencies) > 0 {
		b.add(Action{
			Kind:      ActionInstall,
			Component: c.ID,
			Dir:       c.Subdir,
			Command:   append([]string{"npm", "install", "--save"}, f.PostCreate.Dependencies...),
		})
	}
	if len(f.PostCreate.DevDependencies) > 0 {
		b.add(Action{
			Kind:      ActionInstall,
			Component: c.ID,
			Dir:       c.Subdir,
			Command:   append([]string{"npm", "install", "--save-dev"}, f.PostCreate.DevDependencies...),
		})
	}
	if len(f.PostCreate.Scripts) > 0 {
		b.add(Action{Kind: ActionMergeScripts, Component: c.ID, Path: pkgPath, Scripts: f.PostCreate.Scripts})
	}

	b.copyFiles(c.ID, c.Subdir, f.PostCreate.FilesFor(b.resolved.DeployType))

	for _, del := range f.PostCreate.Delete {
		b.add(Action{Kind: ActionDelete, Component: c.ID, Path: path.Join(c.Subdir, del)})
	}
}

func (b *builder) service(c resolver.ResolvedComponent) {
	var (
		name  string
		pkgs  registry.Packages
		files map[string]string
		sdk   string
	)
	if c.Kind == registry.KindAPI {
		name, pkgs, files = c.API.Name, c.API.Packages, c.API.ScaffoldFiles
	} else {
		name, pkgs, files, sdk = c.Worker.Name, c.Worker.Packages, c.Worker.ScaffoldFiles, c.Worker.SDK
	}

	overlay := c.Overlay()
	if !b.resolved.HasDatabase() {
		overlay = nil
	}
	pkgs = mergePackages(pkgs, overlay)
	if sdk != "" {
		if c.Runtime == registry.RuntimePython {
			pkgs.PythonDependencies = append(pkgs.PythonDependencies, sdk)
		} else {
			pkgs.Dependencies = append(pkgs.Dependencies, sdk)
		}
	}

	b.add(Action{Kind: ActionMkdir, Component: c.ID, Path: c.Subdir, Description: name})

	if c.Runtime == registry.RuntimePython {
		b.add(Action{
			Kind:      ActionWriteFile,
			Component: c.ID,
			Path:      path.Join(c.Subdir, "requirements.txt"),
			Content:   Requirements(pkgs.PythonDependencies),
		})
	} else {
		b.add(Action{
			Kind:      ActionWriteFile,
			Component: c.ID,
			Path:      path.Join(c.Subdir, "package.json"),
			Content:   PackageJSON(b.resolved.ProjectName+"-"+c.Subdir, pkgs),
		})
	}

	b.copyFiles(c.ID, c.Subdir, files)
	if overlay != nil {
		// Overlay copies run after the base ones, so a shared target ends
		// up with the overlay content.
		b.copyFiles(c.ID, c.Subdir, overlay.Files)
	}

	if c.Runtime == registry.RuntimeNode {
		b.add(Action{
			Kind:      ActionInstall,
			Component: c.ID,
			Dir:       c.Subdir,
			Command:   []string{"npm", "install"},
		})
	}
}

func (b *builder) projectFiles() {
	b.copyTemplate("", "README.md", "README_TEMPLATE.md", false)

	written := make(map[string]bool)
	for _, id := range b.opts.Rules.Configs {
		for _, cf := range rules.ConfigFiles(id) {
			b.copyTemplate("", cf.Target, cf.Template, written[cf.Target])
			written[cf.Target] = true
		}
	}

	if len(b.opts.Rules.Rules) > 0 {
		b.add(Action{Kind: ActionMkdir, Path: rules.RulesDir, Description: "Cursor rules"})
		for _, id := range b.opts.Rules.Rules {
			b.copyTemplate("", rules.RuleTarget(id), rules.RuleTemplate(id), false)
		}
	}

	if b.resolved.HasExtra(resolver.ExtraEnv) {
		b.copyTemplate("", ".env.example", "env.example", false)
	}
	if b.resolved.HasExtra(resolver.ExtraDocker) {
		b.copyTemplate("", "docker-compose.yml", "docker-compose.example.yml", false)
	}

	if b.opts.Blueprint != nil {
		b.add(Action{
			Kind:        ActionWriteFile,
			Path:        BlueprintFile,
			Content:     b.opts.Blueprint,
			Description: "Render Blueprint",
		})
	}
}

// mergePackages extends base with the overlay lists. Overlay scripts
// replace base scripts of the same name.
func mergePackages(base registry.Packages, overlay *registry.Overlay) registry.Packages {
	out := registry.Packages{
		Dependencies:       append([]string(nil), base.Dependencies...),
		DevDependencies:    append([]string(nil), base.DevDependencies...),
		PythonDependencies: append([]string(nil), base.PythonDependencies...),
		Scripts:            make(map[string]string, len(base.Scripts)),
	}
	for k, v := range base.Scripts {
		out.Scripts[k] = v
	}
	if overlay == nil {
		return out
	}
	out.Dependencies = append(out.Dependencies, overlay.Dependencies...)
	out.DevDependencies = append(out.DevDependencies, overlay.DevDependencies...)
	out.PythonDependencies = append(out.PythonDependencies, overlay.PythonDependencies...)
	for k, v := range overlay.Scripts {
		out.Scripts[k] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
