package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, DiscoveryBoth, cfg.Discovery)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "solarized/dark", cfg.DefaultVariant)
	assert.Equal(t, "appearance", cfg.Section)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.WatchThemes)
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	// Should not be empty (unless no home directory)
	if path != "" {
		assert.Contains(t, path, ".config")
		assert.Contains(t, path, "themesync")
		assert.Contains(t, path, "config.json")
	}
}

func TestDefaultStorePath(t *testing.T) {
	sqlitePath := DefaultStorePath(BackendSQLite)
	tomlPath := DefaultStorePath(BackendTOML)

	if sqlitePath != "" && tomlPath != "" {
		assert.Equal(t, "settings.db", filepath.Base(sqlitePath))
		assert.Equal(t, "settings.toml", filepath.Base(tomlPath))
	}
}

func TestConfig_StorePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Path = "/tmp/custom.db"
	assert.Equal(t, "/tmp/custom.db", cfg.StorePath())

	cfg.Store.Path = ""
	assert.Equal(t, DefaultStorePath(BackendSQLite), cfg.StorePath())
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")

	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig().DefaultVariant, cfg.DefaultVariant)
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.json")

	assert.NoError(t, err) // Should not error for missing file
	assert.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig().Section, cfg.Section)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	testConfig := &Config{
		ThemesDirs:     []string{"/srv/themes"},
		Discovery:      DiscoveryDirectory,
		Store:          StoreConfig{Backend: BackendTOML, Path: "/srv/settings.toml"},
		DefaultVariant: "dracula/dark",
		WatchThemes:    true,
	}

	data, err := json.MarshalIndent(testConfig, "", "  ")
	assert.NoError(t, err)

	err = os.WriteFile(configFile, data, 0600)
	assert.NoError(t, err)

	cfg, err := LoadConfig(configFile)
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, []string{"/srv/themes"}, cfg.ThemesDirs)
	assert.Equal(t, DiscoveryDirectory, cfg.Discovery)
	assert.Equal(t, BackendTOML, cfg.Store.Backend)
	assert.Equal(t, "dracula/dark", cfg.DefaultVariant)
	assert.True(t, cfg.WatchThemes)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configFile, []byte(`{"log_level": "debug"}`), 0600)
	assert.NoError(t, err)

	cfg, err := LoadConfig(configFile)
	assert.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "appearance", cfg.Section)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "invalid.json")

	err := os.WriteFile(configFile, []byte("invalid json content"), 0600)
	assert.NoError(t, err)

	cfg, err := LoadConfig(configFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test-config.json")

	cfg := DefaultConfig()
	cfg.DefaultVariant = "solarized/light"
	cfg.Store.Backend = BackendTOML

	err := cfg.SaveConfig(configFile)
	assert.NoError(t, err)
	assert.FileExists(t, configFile)

	loadedCfg, err := LoadConfig(configFile)
	assert.NoError(t, err)
	assert.Equal(t, "solarized/light", loadedCfg.DefaultVariant)
	assert.Equal(t, BackendTOML, loadedCfg.Store.Backend)
}

func TestSaveConfig_DirectoryCreation(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "nested", "deep", "config.json")

	cfg := DefaultConfig()
	err := cfg.SaveConfig(configFile)
	assert.NoError(t, err)

	assert.FileExists(t, configFile)
}
