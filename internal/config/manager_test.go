package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoadFromDefaults(t *testing.T) {
	m := NewManager()
	m.LoadFromDefaults()

	cfg := m.GetConfig()
	assert.Equal(t, "solarized/dark", cfg.DefaultVariant)
	assert.Empty(t, m.ConfigPath())
}

func TestManager_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	err := os.WriteFile(path, []byte(`{"discovery": "package", "section": "colors"}`), 0600)
	require.NoError(t, err)

	m := NewManager()
	err = m.LoadFromFile(path)
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, DiscoveryPackage, cfg.Discovery)
	assert.Equal(t, "colors", cfg.Section)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, path, m.ConfigPath())
}

func TestManager_LoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown discovery", `{"discovery": "plugins"}`, "unknown discovery mode"},
		{"unknown backend", `{"store": {"backend": "redis"}}`, "unknown store backend"},
		{"legacy default variant", `{"default_variant": "solarized"}`, "must name a mode"},
		{"bad default mode", `{"default_variant": "solarized/sepia"}`, "invalid default variant"},
		{"bad section", `{"section": "a/b"}`, "invalid section name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			m := NewManager()
			err := m.LoadFromFile(path)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			// Previous configuration stays in place
			assert.Equal(t, "solarized/dark", m.GetConfig().DefaultVariant)
		})
	}
}

func TestManager_GetConfigReturnsCopy(t *testing.T) {
	m := NewManager()
	cfg := m.GetConfig()
	cfg.Section = "mutated"
	cfg.ThemesDirs[0] = "/mutated"

	fresh := m.GetConfig()
	assert.Equal(t, "appearance", fresh.Section)
	assert.NotEqual(t, "/mutated", fresh.ThemesDirs[0])
}

func TestManager_UpdateConfig(t *testing.T) {
	m := NewManager()

	assert.Error(t, m.UpdateConfig(nil))

	cfg := m.GetConfig()
	cfg.DefaultVariant = "dracula/dark"
	require.NoError(t, m.UpdateConfig(cfg))
	assert.Equal(t, "dracula/dark", m.GetConfig().DefaultVariant)
}

func TestManager_AddWatcher(t *testing.T) {
	m := NewManager()
	got := make(chan *Config, 1)
	m.AddWatcher(func(cfg *Config) { got <- cfg })

	cfg := m.GetConfig()
	cfg.LogLevel = "debug"
	require.NoError(t, m.UpdateConfig(cfg))

	select {
	case c := <-got:
		assert.Equal(t, "debug", c.LogLevel)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher was not notified")
	}
}

func TestManager_ThemesDirs(t *testing.T) {
	m := NewManager()
	cfg := m.GetConfig()
	cfg.ThemesDirs = []string{"/a", "  ", "~/themes"}
	require.NoError(t, m.UpdateConfig(cfg))

	dirs := m.ThemesDirs()
	require.Len(t, dirs, 2)
	assert.Equal(t, "/a", dirs[0])
	if home, err := os.UserHomeDir(); err == nil {
		assert.Equal(t, filepath.Join(home, "themes"), dirs[1])
	}
}

func TestManager_SaveToFile(t *testing.T) {
	m := NewManager()
	path := filepath.Join(t.TempDir(), "out", "config.json")

	require.NoError(t, m.SaveToFile(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, m.GetConfig().DefaultVariant, loaded.DefaultVariant)
}
