package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable prefix for create-demo configuration.
const envPrefix = "CREATE_DEMO"

// envNames maps configuration keys to their environment variables.
var envNames = map[string]string{
	KeyRegistry:       "CREATE_DEMO_REGISTRY",
	KeyTemplates:      "CREATE_DEMO_TEMPLATES",
	KeySkipInstall:    "CREATE_DEMO_SKIP_INSTALL",
	KeyLogTimestamps:  "CREATE_DEMO_LOG_TIMESTAMPS",
	KeyDefaultExtras:  "CREATE_DEMO_DEFAULTS_EXTRAS",
	KeyDefaultsDeploy: "CREATE_DEMO_DEFAULTS_DEPLOY",
}

// EnvName returns the environment variable of a configuration key.
func EnvName(key string) string {
	return envNames[key]
}

// Loader handles loading and merging configuration from multiple sources.
// The file and environment layers are kept apart so every resolved value
// can report where it came from.
type Loader struct {
	file *viper.Viper
	env  *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	env := viper.New()
	env.SetEnvPrefix(envPrefix)
	env.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range Keys() {
		_ = env.BindEnv(key, envNames[key])
	}

	return &Loader{file: viper.New(), env: env}
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set are kept. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ReadFile reads configFile into the file layer. A missing file leaves
// the layer empty, and so does a file that fails to parse.
func (l *Loader) ReadFile(configFile string) error {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(expandedPath)
	v.SetConfigType("yaml")
	l.file = viper.New()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	// Reject mistyped values.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}

	l.file = v
	return nil
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values, and unset keys
// keep their defaults.
func (l *Loader) Load(configFile string) (*Config, error) {
	if err := l.ReadFile(configFile); err != nil {
		return nil, err
	}
	return l.Resolve(Flags{}).Config, nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// splitList parses a comma-separated environment value.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
