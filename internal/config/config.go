// Package config provides configuration loading and management.
package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Configuration keys, as written in the config file.
const (
	KeyRegistry       = "registry"
	KeyTemplates      = "templates"
	KeySkipInstall    = "skipInstall"
	KeyLogTimestamps  = "log.timestamps"
	KeyDefaultExtras  = "defaults.extras"
	KeyDefaultsDeploy = "defaults.deploy"
)

// Keys returns every configuration key in resolution order.
func Keys() []string {
	return []string{
		KeyRegistry,
		KeyTemplates,
		KeySkipInstall,
		KeyLogTimestamps,
		KeyDefaultExtras,
		KeyDefaultsDeploy,
	}
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Defaults pre-fill selection flags that were not given.
type Defaults struct {
	// Extras are added to every init when --extra is not set.
	Extras []string `mapstructure:"extras" yaml:"extras,omitempty"`

	// Deploy is the frontend deploy type used when --deploy is not set.
	Deploy string `mapstructure:"deploy" yaml:"deploy,omitempty"`
}

// Config represents the create-demo configuration.
// Loaded from ~/.create-demo/config.yaml.
type Config struct {
	// Registry is the path of a catalog file replacing the embedded one.
	// Env: CREATE_DEMO_REGISTRY
	Registry string `mapstructure:"registry" yaml:"registry,omitempty"`

	// Templates is a directory overlaying the embedded template store.
	// Env: CREATE_DEMO_TEMPLATES
	Templates string `mapstructure:"templates" yaml:"templates,omitempty"`

	// SkipInstall skips package installs and scaffold commands.
	// Env: CREATE_DEMO_SKIP_INSTALL
	SkipInstall bool `mapstructure:"skipInstall" yaml:"skipInstall"`

	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`

	Defaults Defaults `mapstructure:"defaults" yaml:"defaults,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `create-demo config init` to generate the initial config file.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		Log: LogConfig{Timestamps: &timestamps},
		Defaults: Defaults{
			Deploy: "static",
		},
	}
}

// Marshal renders cfg as a config file.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return buf.Bytes(), nil
}

// DefaultConfigTemplate is the content written by `config init`.
const DefaultConfigTemplate = `# create-demo configuration
#
# Precedence: flag > CREATE_DEMO_* env > this file > built-in default.

# Catalog file replacing the embedded component registry.
# registry: ~/.create-demo/catalog.yaml

# Directory whose files override the embedded templates.
# templates: ~/.create-demo/templates

# Skip package installs and scaffold commands.
skipInstall: false

log:
  timestamps: true

defaults:
  # Frontend deploy type: static or webservice.
  deploy: static
  # Extras added when --extra is not given: env, docker.
  extras: []
`
