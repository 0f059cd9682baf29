package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/ajramos/themesync/internal/loader"
	"github.com/ajramos/themesync/internal/registry"
	"github.com/ajramos/themesync/internal/theme"
	"github.com/ajramos/themesync/internal/themes"
)

const testSection = "appearance"

var errInjected = errors.New("injected store failure")

// memStore is an in-memory ConfigStore that counts mutations and can be told
// to fail on a key
type memStore struct {
	mu        sync.Mutex
	ready     bool
	data      map[string]any
	mutations int
	failOn    string
}

func newMemStore() *memStore {
	return &memStore{ready: true, data: make(map[string]any)}
}

func (m *memStore) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *memStore) setReady(ready bool) {
	m.mu.Lock()
	m.ready = ready
	m.mu.Unlock()
}

func (m *memStore) Get(ctx context.Context, section, key string) (any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return nil, false, theme.ErrConfigUnavailable
	}
	v, ok := m.data[section+"|"+key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, section, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return theme.ErrConfigUnavailable
	}
	if m.failOn != "" && key == m.failOn {
		return errInjected
	}
	m.mutations++
	m.data[section+"|"+key] = value
	return nil
}

func (m *memStore) Remove(ctx context.Context, section, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return theme.ErrConfigUnavailable
	}
	if m.failOn != "" && key == m.failOn {
		return errInjected
	}
	m.mutations++
	delete(m.data, section+"|"+key)
	return nil
}

func (m *memStore) Keys(ctx context.Context, section string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return nil, theme.ErrConfigUnavailable
	}
	var keys []string
	for k := range m.data {
		if key, ok := strings.CutPrefix(k, section+"|"); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) value(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[testSection+"|"+key]
	return v, ok
}

func (m *memStore) put(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[testSection+"|"+key] = value
}

func (m *memStore) mutationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations
}

func (m *memStore) fail(key string) {
	m.mu.Lock()
	m.failOn = key
	m.mu.Unlock()
}

// extraThemes adds providers next to the built-in ones
type extraThemes []theme.PaletteProvider

func (e extraThemes) Name() string                               { return "test" }
func (e extraThemes) Discover() ([]theme.PaletteProvider, error) { return e, nil }

// recorder collects export history entries
type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) RecordExport(ctx context.Context, variant, policy string, written int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, variant+":"+policy)
	return nil
}

type testEnv struct {
	store    *memStore
	registry *registry.Registry
	loader   *loader.Loader
	sync     *SyncServiceImpl
}

func newTestEnv(t *testing.T, extra ...theme.PaletteProvider) *testEnv {
	t.Helper()
	strategies := []registry.Strategy{registry.PackageDiscovery{}}
	if len(extra) > 0 {
		strategies = append(strategies, extraThemes(extra))
	}
	return newTestEnvWithStrategies(t, strategies...)
}

func newTestEnvWithStrategies(t *testing.T, strategies ...registry.Strategy) *testEnv {
	t.Helper()
	logger := quietLogger()
	reg := registry.New(logger, strategies...)
	ld := loader.New(reg, logger)
	store := newMemStore()

	return &testEnv{
		store:    store,
		registry: reg,
		loader:   ld,
		sync:     NewSyncService(store, reg, ld, testSection, logger),
	}
}

func (e *testEnv) themeService(defaultVariant theme.Variant) *ThemeServiceImpl {
	return NewThemeService(e.store, e.registry, e.loader, e.sync, testSection, defaultVariant, quietLogger())
}

// brokenTheme declares a dark mode whose palette lacks most fields
func brokenTheme() theme.PaletteProvider {
	return &theme.StaticProvider{
		Theme: "broken",
		Palettes: map[theme.UIMode]*theme.Palette{
			theme.Dark: {EditorBackground: "#000000"},
		},
		Styles: fstest.MapFS{
			"dark/darkstyle.qss": &fstest.MapFile{Data: []byte("QWidget {}")},
		},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

var (
	solarizedDark  = theme.NewVariant(themes.Solarized, theme.Dark)
	solarizedLight = theme.NewVariant(themes.Solarized, theme.Light)
	draculaDark    = theme.NewVariant(themes.Dracula, theme.Dark)
)
