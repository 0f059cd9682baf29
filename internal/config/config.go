package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Discovery modes for installed themes
const (
	DiscoveryPackage   = "package"
	DiscoveryDirectory = "directory"
	DiscoveryBoth      = "both"
)

// Store backends for the persisted theme configuration
const (
	BackendSQLite = "sqlite"
	BackendTOML   = "toml"
)

// StoreConfig selects where theme settings are persisted
type StoreConfig struct {
	Backend string `json:"backend"` // sqlite, toml
	Path    string `json:"path"`    // empty = default under the config dir
}

// Config holds all configuration for the themesync engine
type Config struct {
	// Directories scanned by legacy directory discovery, in priority order
	ThemesDirs []string `json:"themes_dirs"`

	// Discovery: package, directory, both
	Discovery string `json:"discovery"`

	Store StoreConfig `json:"store"`

	// Variant used when nothing usable is selected
	DefaultVariant string `json:"default_variant"`

	// Config section holding the persisted color schemes
	Section string `json:"section"`

	// Logging
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`

	// Invalidate the theme registry when theme directories change
	WatchThemes bool `json:"watch_themes"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ThemesDirs:     []string{DefaultThemesDir()},
		Discovery:      DiscoveryBoth,
		Store:          StoreConfig{Backend: BackendSQLite},
		DefaultVariant: "solarized/dark",
		Section:        "appearance",
		LogLevel:       "info",
	}
}

// LoadConfig loads configuration from file. A missing file yields defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// DefaultConfigDir returns the directory holding themesync's files
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "themesync")
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// DefaultThemesDir returns the default user themes directory
func DefaultThemesDir() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// DefaultStorePath returns the default settings store path for a backend
func DefaultStorePath(backend string) string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	if backend == BackendTOML {
		return filepath.Join(dir, "settings.toml")
	}
	return filepath.Join(dir, "settings.db")
}

// DefaultLogPath returns the default log file path
func DefaultLogPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themesync.log")
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// StorePath returns the configured store path or the backend default
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return DefaultStorePath(c.Store.Backend)
}
