package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ajramos/themesync/internal/theme"
)

// Manager provides centralized configuration management with validation and watching
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	watchers   []func(*Config)
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config:   DefaultConfig(),
		watchers: make([]func(*Config), 0),
	}
}

// LoadFromFile loads configuration from a file with validation
func (m *Manager) LoadFromFile(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	configPath = expandPath(configPath)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m.applyDefaults(cfg)

	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.config = cfg
	m.configPath = configPath
	m.notifyWatchers(cfg)

	return nil
}

// LoadFromDefaults loads default configuration
func (m *Manager) LoadFromDefaults() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := DefaultConfig()
	m.applyDefaults(cfg)

	m.config = cfg
	m.configPath = ""
	m.notifyWatchers(cfg)
}

// GetConfig returns a copy of the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.copyConfig(m.config)
}

// ConfigPath returns the path the configuration was loaded from, if any
func (m *Manager) ConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// UpdateConfig updates the configuration with validation
func (m *Manager) UpdateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.applyDefaults(cfg)

	if err := m.validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.config = cfg
	m.notifyWatchers(cfg)

	return nil
}

// SaveToFile saves the current configuration to a file
func (m *Manager) SaveToFile(filePath string) error {
	m.mu.RLock()
	cfg := m.copyConfig(m.config)
	m.mu.RUnlock()

	if err := cfg.SaveConfig(expandPath(filePath)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// AddWatcher adds a configuration change watcher
func (m *Manager) AddWatcher(watcher func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.watchers = append(m.watchers, watcher)
}

// ThemesDirs returns the configured theme directories with ~ expanded
func (m *Manager) ThemesDirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dirs := make([]string, 0, len(m.config.ThemesDirs))
	for _, d := range m.config.ThemesDirs {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, expandPath(d))
		}
	}
	return dirs
}

// validateConfig validates the configuration
func (m *Manager) validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	switch cfg.Discovery {
	case DiscoveryPackage, DiscoveryDirectory, DiscoveryBoth:
	default:
		return fmt.Errorf("unknown discovery mode '%s'", cfg.Discovery)
	}

	switch cfg.Store.Backend {
	case BackendSQLite, BackendTOML:
	default:
		return fmt.Errorf("unknown store backend '%s'", cfg.Store.Backend)
	}

	v, err := theme.ParseVariant(cfg.DefaultVariant)
	if err != nil {
		return fmt.Errorf("invalid default variant: %w", err)
	}
	if !strings.Contains(cfg.DefaultVariant, "/") {
		return fmt.Errorf("default variant '%s' must name a mode (e.g. '%s')", cfg.DefaultVariant, v)
	}

	if strings.ContainsAny(cfg.Section, "/ ") {
		return fmt.Errorf("invalid section name '%s'", cfg.Section)
	}

	return nil
}

// applyDefaults applies default values for missing configuration
func (m *Manager) applyDefaults(cfg *Config) {
	def := DefaultConfig()

	if cfg.Discovery == "" {
		cfg.Discovery = def.Discovery
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.Path != "" {
		cfg.Store.Path = expandPath(cfg.Store.Path)
	}
	if cfg.DefaultVariant == "" {
		cfg.DefaultVariant = def.DefaultVariant
	}
	if cfg.Section == "" {
		cfg.Section = def.Section
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.LogFile != "" {
		cfg.LogFile = expandPath(cfg.LogFile)
	}
}

// copyConfig creates a deep copy of the configuration
func (m *Manager) copyConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}

	c := *cfg
	c.ThemesDirs = append([]string(nil), cfg.ThemesDirs...)
	return &c
}

// notifyWatchers notifies all configuration watchers
func (m *Manager) notifyWatchers(cfg *Config) {
	for _, watcher := range m.watchers {
		go watcher(m.copyConfig(cfg))
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
