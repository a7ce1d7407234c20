// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/auditshield/internal/domain/entities"
)

const (
	// DefaultConfigDir is the directory name for auditshield configuration.
	DefaultConfigDir = ".auditshield"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite file name inside DefaultConfigDir.
	DefaultDatabaseFile = "auditshield.db"
	// DefaultTrendWindow is how many recent audits the dashboard trend shows.
	DefaultTrendWindow = 5
)

// Color modes for CLI output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables that override the config file.
const (
	EnvDatabasePath = "AUDITSHIELD_DB"
	EnvNoColor      = "NO_COLOR"
)

// Config holds static configuration (read-only after init).
type Config struct {
	// Framework is the label stored on new audits.
	Framework string          `yaml:"framework,omitempty"`
	SQLite    SQLiteConfig    `yaml:"sqlite,omitempty"`
	Dashboard DashboardConfig `yaml:"dashboard,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite record store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database, or ":memory:".
	// Relative paths are resolved against the directory holding DefaultConfigDir.
	Path string `yaml:"path,omitempty"`
}

// DashboardConfig controls dashboard presentation.
type DashboardConfig struct {
	TrendWindow int `yaml:"trend_window,omitempty"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	Color string `yaml:"color,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Framework: entities.DefaultFramework,
		SQLite: SQLiteConfig{
			Path: filepath.Join(DefaultConfigDir, DefaultDatabaseFile),
		},
		Dashboard: DashboardConfig{
			TrendWindow: DefaultTrendWindow,
		},
		Output: OutputConfig{
			Color: ColorAuto,
		},
	}
}

// Load loads configuration from the .auditshield directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'auditshield init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.SQLite.Path = ResolveDatabasePath(basePath, cfg.SQLite.Path)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv(EnvDatabasePath); path != "" {
		c.SQLite.Path = path
	}
	if os.Getenv(EnvNoColor) != "" {
		c.Output.Color = ColorNever
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Framework) == "" {
		c.Framework = entities.DefaultFramework
	}
	if c.Dashboard.TrendWindow < 0 {
		return fmt.Errorf("dashboard.trend_window must be >= 0, got %d", c.Dashboard.TrendWindow)
	}
	switch c.Output.Color {
	case "":
		c.Output.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be one of auto, always, never; got %q", c.Output.Color)
	}
	return nil
}

// ResolveDatabasePath makes a relative database path absolute against basePath.
func ResolveDatabasePath(basePath, path string) string {
	if path == "" {
		path = filepath.Join(DefaultConfigDir, DefaultDatabaseFile)
	}
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

// ConfigDir returns the path to the .auditshield config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if an auditshield config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
