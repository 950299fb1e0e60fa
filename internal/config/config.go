package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/fakeyudi/pulse/internal/reposync"
	"github.com/fakeyudi/pulse/internal/summary"
)

// EnvPrefix prefixes environment overrides, e.g. PULSE_OUTPUT_PATH.
const EnvPrefix = "PULSE"

// Config holds all configurable pulse settings.
type Config struct {
	OutputPath string `mapstructure:"output_path"`
	RepoDir    string `mapstructure:"repo_dir"` // working tree that gets synced
	Remote     string `mapstructure:"remote"`
	Branch     string `mapstructure:"branch"`
	LogLevel   string `mapstructure:"log_level"`  // "debug" | "info" | "warn" | "error"
	LogFormat  string `mapstructure:"log_format"` // "text" | "json"
}

// keys lists every setting, in the order used for env lookups.
var keys = []string{"output_path", "repo_dir", "remote", "branch", "log_level", "log_format"}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		OutputPath: summary.DefaultOutputPath,
		RepoDir:    ".",
		Remote:     reposync.DefaultRemote,
		Branch:     reposync.DefaultBranch,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// GlobalPath returns ~/.config/pulse/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pulse", "config.json"), nil
}

// LoadGlobal reads ~/.config/pulse/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .pulseconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".pulseconfig", false)
}

// Load merges global, project and environment settings.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Config{}, err
	}
	project, err := LoadProject()
	if err != nil {
		return Config{}, err
	}
	return Merge(global, project, FromEnv()), nil
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// FromEnv returns the settings present in PULSE_* environment variables, or
// nil when none are set.
func FromEnv() *Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil
	}
	if cfg == (Config{}) {
		return nil
	}
	return &cfg
}

// Merge combines layers in increasing precedence over Defaults. Empty values
// in a layer fall through to the layer below.
func Merge(layers ...*Config) Config {
	result := Defaults()
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		override(&result.OutputPath, layer.OutputPath)
		override(&result.RepoDir, layer.RepoDir)
		override(&result.Remote, layer.Remote)
		override(&result.Branch, layer.Branch)
		override(&result.LogLevel, layer.LogLevel)
		override(&result.LogFormat, layer.LogFormat)
	}
	return result
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
