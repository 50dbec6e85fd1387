// Package config loads annotate's settings from ~/.annotate/config.yaml with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// HomeEnv overrides the base directory (default ~/.annotate).
	HomeEnv = "ANNOTATE_HOME"
	// ProjectsDirEnv overrides the projects directory.
	ProjectsDirEnv = "ANNOTATE_PROJECTS_DIR"
	// LogLevelEnv overrides the log level.
	LogLevelEnv = "ANNOTATE_LOG_LEVEL"
	// OTLPEndpointEnv enables trace export when set.
	OTLPEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
	// ServiceNameEnv names the service in exported traces.
	ServiceNameEnv = "OTEL_SERVICE_NAME"

	// DefaultHomeDir is the base directory under $HOME.
	DefaultHomeDir = ".annotate"
	// FileName is the config file name inside the home directory.
	FileName = "config.yaml"
)

// Config holds all annotate configuration.
type Config struct {
	// Home is the base directory; other relative paths resolve against it.
	Home        string `yaml:"-"`
	ProjectsDir string `yaml:"projects_dir"`
	Database    string `yaml:"database"`

	Logging   LoggingConfig   `yaml:"logging"`
	Selector  SelectorConfig  `yaml:"selector"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoggingConfig configures the zap file logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`
}

// SelectorConfig holds label selector defaults.
type SelectorConfig struct {
	AllowMultiple bool `yaml:"allow_multiple"`
	ShowShortcuts bool `yaml:"show_shortcuts"`
}

// WorkspaceConfig configures the annotation workspace.
type WorkspaceConfig struct {
	Segmenter     string        `yaml:"segmenter"` // sentence, line, paragraph
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// TelemetryConfig configures OTLP trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ProjectsDir: "projects",
		Database:    "annotations.db",
		Logging: LoggingConfig{
			Level: "info",
			Path:  "annotate.log",
		},
		Selector: SelectorConfig{
			AllowMultiple: true,
			ShowShortcuts: true,
		},
		Workspace: WorkspaceConfig{
			Segmenter:     "sentence",
			WatchDebounce: 250 * time.Millisecond,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "annotate",
		},
	}
}

// ResolveHome returns the base directory from ANNOTATE_HOME or ~/.annotate.
func ResolveHome() (string, error) {
	if h := os.Getenv(HomeEnv); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultHomeDir), nil
}

// Load reads <home>/config.yaml over the defaults and applies env overrides.
// A missing file is not an error.
func Load() (Config, error) {
	home, err := ResolveHome()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home: %w", err)
	}
	return LoadFrom(home)
}

// LoadFrom is Load with an explicit home directory.
func LoadFrom(home string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Join(home, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", FileName, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	cfg.Home = home
	cfg.applyEnv()
	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(ProjectsDirEnv); v != "" {
		c.ProjectsDir = v
	}
	if v := os.Getenv(LogLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(OTLPEndpointEnv); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv(ServiceNameEnv); v != "" {
		c.Telemetry.ServiceName = v
	}
}

func (c *Config) resolvePaths() {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Home, p)
	}
	c.ProjectsDir = abs(c.ProjectsDir)
	c.Database = abs(c.Database)
	c.Logging.Path = abs(c.Logging.Path)
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Workspace.Segmenter {
	case "sentence", "line", "paragraph":
	default:
		return fmt.Errorf("workspace.segmenter: unknown mode %q", c.Workspace.Segmenter)
	}
	if c.Workspace.WatchDebounce < 0 {
		return fmt.Errorf("workspace.watch_debounce: must not be negative")
	}
	return nil
}
