package config

import (
	"os"

	"github.com/render-examples/create-demo/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value and where it came from.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource

	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// Flags holds command-line values. Nil pointers and nil slices mean the
// flag was not given.
type Flags struct {
	Registry      *string
	Templates     *string
	SkipInstall   *bool
	Timestamps    *bool
	DefaultExtras []string
	DefaultDeploy *string
}

// ResolvedConfig is the effective configuration of one invocation.
type ResolvedConfig struct {
	Config *Config

	// Values lists the resolution of every key, in Keys order.
	Values []ResolvedValue
}

// Value returns the resolution of key.
func (r *ResolvedConfig) Value(key string) (ResolvedValue, bool) {
	for _, v := range r.Values {
		if v.Key == key {
			return v, true
		}
	}
	return ResolvedValue{}, false
}

type layer[T any] struct {
	source ConfigSource
	value  T
	set    bool
}

// pick returns the first set layer. Later set layers are recorded as
// shadowed.
func pick[T any](key string, def T, layers ...layer[T]) (T, ResolvedValue) {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	out := def
	found := false
	for _, l := range layers {
		if !l.set {
			continue
		}
		if found {
			rv.Shadowed[l.source] = l.value
			continue
		}
		out, found = l.value, true
		rv.Source = l.source
	}
	if !found {
		rv.Source = SourceDefault
	}
	rv.Value = out
	return out, rv
}

func fromFlag[T any](p *T) layer[T] {
	if p == nil {
		return layer[T]{}
	}
	return layer[T]{source: SourceFlag, value: *p, set: true}
}

func (l *Loader) stringLayers(key string, flag *string) []layer[string] {
	return []layer[string]{
		fromFlag(flag),
		{source: SourceEnv, value: l.env.GetString(key), set: l.env.IsSet(key)},
		{source: SourceConfig, value: l.file.GetString(key), set: l.file.IsSet(key)},
	}
}

func (l *Loader) boolLayers(key string, flag *bool) []layer[bool] {
	return []layer[bool]{
		fromFlag(flag),
		{source: SourceEnv, value: l.env.GetBool(key), set: l.env.IsSet(key)},
		{source: SourceConfig, value: l.file.GetBool(key), set: l.file.IsSet(key)},
	}
}

// Resolve resolves every key using precedence: (1) flag, (2) CREATE_DEMO_*
// env, (3) the file read by ReadFile, (4) built-in default.
func (l *Loader) Resolve(flags Flags) *ResolvedConfig {
	def := DefaultConfig()
	cfg := &Config{}
	var values []ResolvedValue
	var rv ResolvedValue

	cfg.Registry, rv = pick(KeyRegistry, def.Registry, l.stringLayers(KeyRegistry, flags.Registry)...)
	values = append(values, rv)

	cfg.Templates, rv = pick(KeyTemplates, def.Templates, l.stringLayers(KeyTemplates, flags.Templates)...)
	values = append(values, rv)

	cfg.SkipInstall, rv = pick(KeySkipInstall, def.SkipInstall, l.boolLayers(KeySkipInstall, flags.SkipInstall)...)
	values = append(values, rv)

	timestamps, rv := pick(KeyLogTimestamps, *def.Log.Timestamps, l.boolLayers(KeyLogTimestamps, flags.Timestamps)...)
	cfg.Log.Timestamps = &timestamps
	values = append(values, rv)

	var flagExtras *[]string
	if flags.DefaultExtras != nil {
		flagExtras = &flags.DefaultExtras
	}
	cfg.Defaults.Extras, rv = pick(KeyDefaultExtras, def.Defaults.Extras,
		fromFlag(flagExtras),
		layer[[]string]{source: SourceEnv, value: splitList(l.env.GetString(KeyDefaultExtras)), set: l.env.IsSet(KeyDefaultExtras)},
		layer[[]string]{source: SourceConfig, value: l.file.GetStringSlice(KeyDefaultExtras), set: l.file.IsSet(KeyDefaultExtras)},
	)
	values = append(values, rv)

	cfg.Defaults.Deploy, rv = pick(KeyDefaultsDeploy, def.Defaults.Deploy, l.stringLayers(KeyDefaultsDeploy, flags.DefaultDeploy)...)
	values = append(values, rv)

	return &ResolvedConfig{Config: cfg, Values: values}
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CREATE_DEMO_CONFIG env, (3) ~/.create-demo/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
