// Package blueprint compiles a resolved selection into a Render Blueprint
// (render.yaml) document.
package blueprint

import "github.com/render-examples/create-demo/internal/registry"

// EnvironmentName is the single environment of a grouped document.
const EnvironmentName = "production"

// Keys referenced by the cross-component wiring.
const (
	DatabaseURLKey     = "DATABASE_URL"
	RedisURLKey        = "REDIS_URL"
	ConnectionProperty = "connectionString"
	KeyValueType       = "keyvalue"
)

// Document is a blueprint in either shape. A flat document only fills the
// embedded Resources; a grouped document only fills Projects.
type Document struct {
	Projects  []Project `yaml:"projects,omitempty" json:"projects,omitempty"`
	Resources `yaml:",inline"`
}

// Grouped reports whether the document uses the projects/environments shape.
func (d *Document) Grouped() bool {
	return len(d.Projects) > 0
}

// All returns the resources regardless of shape.
func (d *Document) All() Resources {
	if !d.Grouped() {
		return d.Resources
	}
	var out Resources
	for _, p := range d.Projects {
		for _, e := range p.Environments {
			out.Services = append(out.Services, e.Services...)
			out.Databases = append(out.Databases, e.Databases...)
			out.KeyValues = append(out.KeyValues, e.KeyValues...)
		}
	}
	return out
}

// Resources are the deployable entries of a blueprint.
type Resources struct {
	Services  []Service  `yaml:"services,omitempty" json:"services,omitempty"`
	Databases []Database `yaml:"databases,omitempty" json:"databases,omitempty"`
	KeyValues []KeyValue `yaml:"keyValues,omitempty" json:"keyValues,omitempty"`
}

// Len counts every entry.
func (r Resources) Len() int {
	return len(r.Services) + len(r.Databases) + len(r.KeyValues)
}

// Project groups environments.
type Project struct {
	Name         string        `yaml:"name" json:"name"`
	Environments []Environment `yaml:"environments" json:"environments"`
}

// Environment holds the resources of one environment.
type Environment struct {
	Name      string `yaml:"name" json:"name"`
	Resources `yaml:",inline"`
}

// Service is a web service, static site, worker or cron job.
type Service struct {
	Type              registry.ServiceType `yaml:"type" json:"type"`
	Name              string               `yaml:"name" json:"name"`
	Runtime           string               `yaml:"runtime" json:"runtime"`
	Plan              string               `yaml:"plan,omitempty" json:"plan,omitempty"`
	RootDir           string               `yaml:"rootDir,omitempty" json:"rootDir,omitempty"`
	BuildCommand      string               `yaml:"buildCommand,omitempty" json:"buildCommand,omitempty"`
	StartCommand      string               `yaml:"startCommand,omitempty" json:"startCommand,omitempty"`
	StaticPublishPath string               `yaml:"staticPublishPath,omitempty" json:"staticPublishPath,omitempty"`
	HealthCheckPath   string               `yaml:"healthCheckPath,omitempty" json:"healthCheckPath,omitempty"`
	Schedule          string               `yaml:"schedule,omitempty" json:"schedule,omitempty"`
	EnvVars           []registry.EnvVar    `yaml:"envVars,omitempty" json:"envVars,omitempty"`
	Routes            []registry.Route     `yaml:"routes,omitempty" json:"routes,omitempty"`
}

// EnvVar returns the first variable with key, or nil.
func (s *Service) EnvVar(key string) *registry.EnvVar {
	for i := range s.EnvVars {
		if s.EnvVars[i].Key == key {
			return &s.EnvVars[i]
		}
	}
	return nil
}

// Database is a managed Postgres instance.
type Database struct {
	Name                 string `yaml:"name" json:"name"`
	Plan                 string `yaml:"plan,omitempty" json:"plan,omitempty"`
	PostgresMajorVersion string `yaml:"postgresMajorVersion,omitempty" json:"postgresMajorVersion,omitempty"`
}

// KeyValue is a managed key value store.
type KeyValue struct {
	Type            string             `yaml:"type" json:"type"`
	Name            string             `yaml:"name" json:"name"`
	Plan            string             `yaml:"plan,omitempty" json:"plan,omitempty"`
	MaxmemoryPolicy string             `yaml:"maxmemoryPolicy,omitempty" json:"maxmemoryPolicy,omitempty"`
	IPAllowList     []registry.IPAllow `yaml:"ipAllowList,omitempty" json:"ipAllowList,omitempty"`
}
