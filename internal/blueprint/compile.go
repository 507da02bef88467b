package blueprint

import (
	"github.com/render-examples/create-demo/internal/output"
	"github.com/render-examples/create-demo/internal/registry"
	"github.com/render-examples/create-demo/internal/resolver"
)

// entry tracks which component produced a service, for the wiring pass.
type entry struct {
	kind    registry.Kind
	service Service
}

// Compile builds the blueprint of a resolved plan. It returns nil when the
// plan deploys nothing. Entries are ordered services, databases, keyValues;
// services follow plan order. Workflow workers are omitted. More than one
// entry in total yields the grouped shape.
func Compile(p *resolver.Plan) *Document {
	var entries []entry
	for _, c := range p.Components {
		if svc, ok := service(p, c); ok {
			entries = append(entries, entry{kind: c.Kind, service: svc})
		}
	}

	wire(p, entries)

	var res Resources
	for _, e := range entries {
		res.Services = append(res.Services, e.service)
	}
	if p.Database != nil {
		res.Databases = append(res.Databases, Database{
			Name:                 p.DatabaseName(),
			Plan:                 p.Database.Blueprint.Plan,
			PostgresMajorVersion: p.Database.Blueprint.PostgresMajorVersion,
		})
	}
	if p.Cache != nil {
		res.KeyValues = append(res.KeyValues, KeyValue{
			Type:            KeyValueType,
			Name:            p.CacheName(),
			Plan:            p.Cache.Blueprint.Plan,
			MaxmemoryPolicy: p.Cache.Blueprint.MaxmemoryPolicy,
			IPAllowList:     append([]registry.IPAllow(nil), p.Cache.Blueprint.IPAllowList...),
		})
	}

	total := res.Len()
	output.Debug("compiled blueprint",
		"services", len(res.Services),
		"databases", len(res.Databases),
		"keyValues", len(res.KeyValues),
	)

	switch {
	case total == 0:
		return nil
	case total > 1:
		return &Document{Projects: []Project{{
			Name:         p.ProjectName,
			Environments: []Environment{{Name: EnvironmentName, Resources: res}},
		}}}
	default:
		return &Document{Resources: res}
	}
}

// service maps a component to a blueprint service. Components without a
// fragment, such as workflow workers, produce none.
func service(p *resolver.Plan, c resolver.ResolvedComponent) (Service, bool) {
	var frag *registry.ServiceFragment
	switch c.Kind {
	case registry.KindFrontend:
		frag = c.Frontend.Fragment(p.DeployType)
	case registry.KindAPI:
		frag = c.API.Blueprint
	case registry.KindWorker:
		if c.Worker.WorkerType == registry.WorkerTypeWorkflow {
			return Service{}, false
		}
		frag = c.Worker.Blueprint
	}
	if frag == nil {
		return Service{}, false
	}

	svc := Service{
		Type:            frag.Type,
		Name:            p.ProjectName + "-" + c.Subdir,
		Runtime:         frag.Runtime,
		Plan:            frag.Plan,
		RootDir:         c.Subdir,
		BuildCommand:    frag.BuildCommand,
		HealthCheckPath: frag.HealthCheckPath,
		Schedule:        frag.Schedule,
		EnvVars:         append([]registry.EnvVar(nil), frag.EnvVars...),
		Routes:          append([]registry.Route(nil), frag.Routes...),
	}
	// A service either publishes static files or runs a process.
	if frag.StaticPublishPath != "" {
		svc.StaticPublishPath = frag.StaticPublishPath
		svc.HealthCheckPath = ""
	} else {
		svc.StartCommand = frag.StartCommand
	}
	return svc, true
}

// wire injects references to the selected database and cache into every
// API and worker service.
func wire(p *resolver.Plan, entries []entry) {
	for i := range entries {
		e := &entries[i]
		if e.kind != registry.KindAPI && e.kind != registry.KindWorker {
			continue
		}
		if p.Database != nil {
			setEnv(&e.service, registry.EnvVar{
				Key: DatabaseURLKey,
				FromDatabase: &registry.FromDatabase{
					Name:     p.DatabaseName(),
					Property: ConnectionProperty,
				},
			})
		}
		if p.Cache != nil {
			setEnv(&e.service, registry.EnvVar{
				Key: RedisURLKey,
				FromService: &registry.FromService{
					Type:     KeyValueType,
					Name:     p.CacheName(),
					Property: ConnectionProperty,
				},
			})
		}
	}
}

// setEnv replaces a declared variable with the same key or appends v, so
// a key is never present twice.
func setEnv(svc *Service, v registry.EnvVar) {
	if existing := svc.EnvVar(v.Key); existing != nil {
		*existing = v
		return
	}
	svc.EnvVars = append(svc.EnvVars, v)
}
