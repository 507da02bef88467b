// Package registry holds the catalog of components a demo project can be
// composed from.
package registry

// Kind discriminates the component variants.
type Kind string

const (
	KindFrontend Kind = "frontend"
	KindAPI      Kind = "api"
	KindWorker   Kind = "worker"
	KindDatabase Kind = "database"
	KindCache    Kind = "cache"
)

// Kinds lists every component kind in display order.
func Kinds() []Kind {
	return []Kind{KindFrontend, KindAPI, KindWorker, KindDatabase, KindCache}
}

// Runtime is the language runtime of an API or worker.
type Runtime string

const (
	RuntimeNode   Runtime = "node"
	RuntimePython Runtime = "python"
)

// Tag returns the subdirectory suffix used for workers of this runtime.
func (r Runtime) Tag() string {
	switch r {
	case RuntimeNode:
		return "ts"
	case RuntimePython:
		return "py"
	default:
		return string(r)
	}
}

// Valid reports whether r is a known runtime.
func (r Runtime) Valid() bool {
	return r == RuntimeNode || r == RuntimePython
}

// DeployType is the way a frontend is deployed.
type DeployType string

const (
	DeployStatic     DeployType = "static"
	DeployWebservice DeployType = "webservice"
)

// WorkerType is the variant of a background worker.
type WorkerType string

const (
	WorkerTypeWorker   WorkerType = "worker"
	WorkerTypeCron     WorkerType = "cron"
	WorkerTypeWorkflow WorkerType = "workflow"
)

// Valid reports whether w is a known worker type.
func (w WorkerType) Valid() bool {
	switch w {
	case WorkerTypeWorker, WorkerTypeCron, WorkerTypeWorkflow:
		return true
	default:
		return false
	}
}

// Component is implemented by every catalog entry.
type Component interface {
	Kind() Kind
	Meta() *Base
}

// Base holds the fields shared by all component kinds.
type Base struct {
	// ID is the catalog key. It is filled in on load, never read from the file.
	ID          string   `json:"-"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Rules       []string `json:"rules,omitempty"`
	Configs     []string `json:"configs,omitempty"`
}

// Meta returns the shared fields.
func (b *Base) Meta() *Base { return b }

// Packages are the dependency lists and scripts of a scaffolded package.
type Packages struct {
	Dependencies       []string          `json:"dependencies,omitempty"`
	DevDependencies    []string          `json:"devDependencies,omitempty"`
	PythonDependencies []string          `json:"pythonDependencies,omitempty"`
	Scripts            map[string]string `json:"scripts,omitempty"`
}

// Empty reports whether no dependency or script is declared.
func (p Packages) Empty() bool {
	return len(p.Dependencies) == 0 && len(p.DevDependencies) == 0 &&
		len(p.PythonDependencies) == 0 && len(p.Scripts) == 0
}

// Overlay is contributed by an API or worker only when a database is selected.
type Overlay struct {
	Packages
	// Files maps target paths to template paths.
	Files map[string]string `json:"files,omitempty"`
	Rules []string          `json:"rules,omitempty"`
}

// PostCreate lists the adjustments applied after a frontend scaffold command.
type PostCreate struct {
	Dependencies    []string          `json:"dependencies,omitempty"`
	DevDependencies []string          `json:"devDependencies,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Files           map[string]string `json:"files,omitempty"`
	FilesStatic     map[string]string `json:"filesStatic,omitempty"`
	FilesWebservice map[string]string `json:"filesWebservice,omitempty"`
	Delete          []string          `json:"delete,omitempty"`
}

// FilesFor returns the shared files merged with the files of the deploy type.
func (p PostCreate) FilesFor(deploy DeployType) map[string]string {
	out := make(map[string]string, len(p.Files))
	for k, v := range p.Files {
		out[k] = v
	}
	variant := p.FilesStatic
	if deploy == DeployWebservice {
		variant = p.FilesWebservice
	}
	for k, v := range variant {
		out[k] = v
	}
	return out
}

// Frontend is a web frontend, always placed in the frontend/ directory.
type Frontend struct {
	Base
	// CreateCommand is run from the project root. {{SUBDIR}} is replaced
	// with the target directory name.
	CreateCommand       string           `json:"createCommand,omitempty"`
	PostCreate          PostCreate       `json:"postCreate,omitempty"`
	SupportsWebservice  bool             `json:"supportsWebservice,omitempty"`
	BlueprintStatic     *ServiceFragment `json:"blueprintStatic,omitempty"`
	BlueprintWebservice *ServiceFragment `json:"blueprintWebservice,omitempty"`
}

// Kind implements Component.
func (*Frontend) Kind() Kind { return KindFrontend }

// Fragment returns the blueprint fragment of a deploy type, or nil.
func (f *Frontend) Fragment(deploy DeployType) *ServiceFragment {
	switch deploy {
	case DeployStatic:
		return f.BlueprintStatic
	case DeployWebservice:
		return f.BlueprintWebservice
	default:
		return nil
	}
}

// Supports reports whether the frontend can be deployed as deploy.
func (f *Frontend) Supports(deploy DeployType) bool {
	if f.Fragment(deploy) == nil {
		return false
	}
	if deploy == DeployWebservice {
		return f.SupportsWebservice
	}
	return true
}

// DeployTypes lists the supported deploy types, static first.
func (f *Frontend) DeployTypes() []DeployType {
	var out []DeployType
	for _, d := range []DeployType{DeployStatic, DeployWebservice} {
		if f.Supports(d) {
			out = append(out, d)
		}
	}
	return out
}

// API is an HTTP API service.
type API struct {
	Base
	Subdir  string  `json:"subdir"`
	Runtime Runtime `json:"runtime"`
	Packages
	// ScaffoldFiles maps target paths to template paths.
	ScaffoldFiles map[string]string `json:"scaffoldFiles,omitempty"`
	WithDatabase  *Overlay          `json:"withDatabase,omitempty"`
	Blueprint     *ServiceFragment  `json:"blueprint,omitempty"`
}

// Kind implements Component.
func (*API) Kind() Kind { return KindAPI }

// Worker is a background worker, cron job or workflow.
type Worker struct {
	Base
	Subdir     string     `json:"subdir"`
	Runtime    Runtime    `json:"runtime"`
	WorkerType WorkerType `json:"workerType"`
	// SDK is an extra package installed for workflow workers.
	SDK string `json:"sdk,omitempty"`
	Packages
	ScaffoldFiles map[string]string `json:"scaffoldFiles,omitempty"`
	WithDatabase  *Overlay          `json:"withDatabase,omitempty"`
	// Blueprint is nil for workflow workers.
	Blueprint *ServiceFragment `json:"blueprint,omitempty"`
}

// Kind implements Component.
func (*Worker) Kind() Kind { return KindWorker }

// Database is a managed Postgres database.
type Database struct {
	Base
	// NameTemplate may reference {{PROJECT_NAME}}.
	NameTemplate string           `json:"nameTemplate"`
	Blueprint    DatabaseFragment `json:"blueprint"`
}

// Kind implements Component.
func (*Database) Kind() Kind { return KindDatabase }

// Cache is a managed key value store.
type Cache struct {
	Base
	NameTemplate string           `json:"nameTemplate"`
	Blueprint    KeyValueFragment `json:"blueprint"`
}

// Kind implements Component.
func (*Cache) Kind() Kind { return KindCache }

// Preset is a named selection of components. Its ids refer to entries of
// the same catalog.
type Preset struct {
	ID          string     `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Frontend    string     `json:"frontend,omitempty"`
	Deploy      DeployType `json:"deploy,omitempty"`
	APIs        []string   `json:"apis,omitempty"`
	Workers     []string   `json:"workers,omitempty"`
	Database    string     `json:"database,omitempty"`
	Cache       string     `json:"cache,omitempty"`
	Extras      []string   `json:"extras,omitempty"`
}

// Empty reports whether the preset selects no component.
func (p *Preset) Empty() bool {
	return p.Frontend == "" && len(p.APIs) == 0 && len(p.Workers) == 0 &&
		p.Database == "" && p.Cache == ""
}

// ServiceType is the blueprint service type.
type ServiceType string

const (
	ServiceWeb    ServiceType = "web"
	ServiceWorker ServiceType = "worker"
	ServiceCron   ServiceType = "cron"
)

// ServiceFragment describes how a component maps to a blueprint service.
type ServiceFragment struct {
	Type              ServiceType `json:"type"`
	Runtime           string      `json:"runtime"`
	Plan              string      `json:"plan,omitempty"`
	BuildCommand      string      `json:"buildCommand,omitempty"`
	StartCommand      string      `json:"startCommand,omitempty"`
	StaticPublishPath string      `json:"staticPublishPath,omitempty"`
	HealthCheckPath   string      `json:"healthCheckPath,omitempty"`
	Schedule          string      `json:"schedule,omitempty"`
	EnvVars           []EnvVar    `json:"envVars,omitempty"`
	Routes            []Route     `json:"routes,omitempty"`
}

// DatabaseFragment describes a blueprint database entry.
type DatabaseFragment struct {
	Plan                 string `json:"plan,omitempty"`
	PostgresMajorVersion string `json:"postgresMajorVersion,omitempty"`
}

// KeyValueFragment describes a blueprint key value entry.
type KeyValueFragment struct {
	Plan            string    `json:"plan,omitempty"`
	MaxmemoryPolicy string    `json:"maxmemoryPolicy,omitempty"`
	IPAllowList     []IPAllow `json:"ipAllowList,omitempty"`
}

// EnvVar is a literal, generated, or cross-referenced environment variable.
type EnvVar struct {
	Key           string        `json:"key" yaml:"key"`
	Value         string        `json:"value,omitempty" yaml:"value,omitempty"`
	GenerateValue bool          `json:"generateValue,omitempty" yaml:"generateValue,omitempty"`
	Sync          *bool         `json:"sync,omitempty" yaml:"sync,omitempty"`
	FromDatabase  *FromDatabase `json:"fromDatabase,omitempty" yaml:"fromDatabase,omitempty"`
	FromService   *FromService  `json:"fromService,omitempty" yaml:"fromService,omitempty"`
}

// FromDatabase references a property of a blueprint database.
type FromDatabase struct {
	Name     string `json:"name" yaml:"name"`
	Property string `json:"property" yaml:"property"`
}

// FromService references a property or env var of another blueprint service.
type FromService struct {
	Type      string `json:"type" yaml:"type"`
	Name      string `json:"name" yaml:"name"`
	Property  string `json:"property,omitempty" yaml:"property,omitempty"`
	EnvVarKey string `json:"envVarKey,omitempty" yaml:"envVarKey,omitempty"`
}

// Route is a static site redirect or rewrite rule.
type Route struct {
	Type        string `json:"type" yaml:"type"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// IPAllow is an entry of a key value store allow list.
type IPAllow struct {
	Source      string `json:"source" yaml:"source"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
