package registry

import (
	"fmt"
	"sort"
)

// validate returns a sorted list of catalog problems.
func (r *Registry) validate() []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, id := range keys(r.frontends) {
		f := r.frontends[id]
		if f == nil {
			add("frontends.%s: empty entry", id)
			continue
		}
		if f.BlueprintStatic == nil && f.BlueprintWebservice == nil {
			add("frontends.%s: needs blueprintStatic or blueprintWebservice", id)
		}
		if f.SupportsWebservice != (f.BlueprintWebservice != nil) {
			add("frontends.%s: supportsWebservice must match the presence of blueprintWebservice", id)
		}
		if b := f.BlueprintStatic; b != nil && (b.StaticPublishPath == "" || b.StartCommand != "") {
			add("frontends.%s: blueprintStatic needs staticPublishPath and no startCommand", id)
		}
		if b := f.BlueprintWebservice; b != nil && (b.StartCommand == "" || b.StaticPublishPath != "") {
			add("frontends.%s: blueprintWebservice needs startCommand and no staticPublishPath", id)
		}
	}

	subdirs := make(map[string]string)
	for _, id := range keys(r.apis) {
		a := r.apis[id]
		if a == nil {
			add("apis.%s: empty entry", id)
			continue
		}
		if a.Subdir == "" {
			add("apis.%s: subdir is required", id)
		} else if other, ok := subdirs[a.Subdir]; ok {
			add("apis.%s: subdir %q already used by %s", id, a.Subdir, other)
		} else {
			subdirs[a.Subdir] = id
		}
		if !a.Runtime.Valid() {
			add("apis.%s: unknown runtime %q", id, a.Runtime)
		}
		if a.Blueprint != nil && a.Blueprint.StaticPublishPath != "" {
			add("apis.%s: blueprint cannot set staticPublishPath", id)
		}
	}

	for _, id := range keys(r.workers) {
		w := r.workers[id]
		if w == nil {
			add("workers.%s: empty entry", id)
			continue
		}
		if w.Subdir == "" {
			add("workers.%s: subdir is required", id)
		}
		if !w.Runtime.Valid() {
			add("workers.%s: unknown runtime %q", id, w.Runtime)
		}
		if !w.WorkerType.Valid() {
			add("workers.%s: unknown workerType %q", id, w.WorkerType)
		}
		switch {
		case w.WorkerType == WorkerTypeWorkflow && w.Blueprint != nil:
			add("workers.%s: workflow workers cannot declare a blueprint", id)
		case w.WorkerType == WorkerTypeCron && (w.Blueprint == nil || w.Blueprint.Schedule == ""):
			add("workers.%s: cron workers need a blueprint with a schedule", id)
		}
	}

	for _, id := range keys(r.databases) {
		if d := r.databases[id]; d == nil || d.NameTemplate == "" {
			add("databases.%s: nameTemplate is required", id)
		}
	}
	for _, id := range keys(r.caches) {
		if c := r.caches[id]; c == nil || c.NameTemplate == "" {
			add("caches.%s: nameTemplate is required", id)
		}
	}

	for _, id := range keys(r.presets) {
		p := r.presets[id]
		if p == nil {
			add("presets.%s: empty entry", id)
			continue
		}
		r.validatePreset(p, add)
	}

	sort.Strings(problems)
	return problems
}

func (r *Registry) validatePreset(p *Preset, add func(string, ...any)) {
	prefix := "presets." + p.ID
	if p.Empty() {
		add("%s: selects no component", prefix)
	}
	if p.Frontend != "" {
		f, ok := r.frontends[p.Frontend]
		switch {
		case !ok || f == nil:
			add("%s: unknown frontend %q", prefix, p.Frontend)
		case p.Deploy != "" && !f.Supports(p.Deploy):
			add("%s: frontend %s does not support deploy %q", prefix, p.Frontend, p.Deploy)
		}
	} else if p.Deploy != "" {
		add("%s: deploy needs a frontend", prefix)
	}
	for _, id := range p.APIs {
		if _, ok := r.apis[id]; !ok {
			add("%s: unknown api %q", prefix, id)
		}
	}
	for _, id := range p.Workers {
		if _, ok := r.workers[id]; !ok {
			add("%s: unknown worker %q", prefix, id)
		}
	}
	if _, ok := r.databases[p.Database]; p.Database != "" && !ok {
		add("%s: unknown database %q", prefix, p.Database)
	}
	if _, ok := r.caches[p.Cache]; p.Cache != "" && !ok {
		add("%s: unknown cache %q", prefix, p.Cache)
	}
}
