package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ajramos/themesync/internal/config"
	"github.com/ajramos/themesync/internal/db"
	"github.com/ajramos/themesync/internal/theme"
)

// StoreManager opens the configured settings backend and owns its lifetime.
// It is itself a ConfigStore that is not ready until Open succeeds, so
// services can be built before the backend is available.
type StoreManager struct {
	backend string
	path    string
	logger  *log.Logger

	mu       sync.RWMutex
	database *db.Store
	store    ConfigStore
	history  *db.HistoryStore
	onReady  []func()
}

// NewStoreManager creates a manager for the backend selected in cfg
func NewStoreManager(cfg *config.Config, logger *log.Logger) *StoreManager {
	if logger == nil {
		logger = log.Default()
	}
	return &StoreManager{
		backend: cfg.Store.Backend,
		path:    cfg.StorePath(),
		logger:  logger.WithPrefix("store"),
	}
}

// OnReady registers fn to run each time Open makes a backend available
func (m *StoreManager) OnReady(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReady = append(m.onReady, fn)
}

// Open opens the backend. Opening an already open manager is a no-op.
func (m *StoreManager) Open(ctx context.Context) (ConfigStore, error) {
	m.mu.Lock()
	if m.store != nil {
		store := m.store
		m.mu.Unlock()
		return store, nil
	}

	store, err := m.open(ctx)
	hooks := slices.Clone(m.onReady)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, fn := range hooks {
		fn()
	}
	return store, nil
}

// open creates the backend; callers hold the lock
func (m *StoreManager) open(ctx context.Context) (ConfigStore, error) {
	m.logger.Debug("opening settings store", "backend", m.backend, "path", m.path)

	switch m.backend {
	case config.BackendSQLite:
		database, err := db.Open(ctx, m.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open settings database at %s: %w", m.path, err)
		}
		m.database = database
		m.store = db.NewSettingsStore(database)
		m.history = db.NewHistoryStore(database)
	case config.BackendTOML:
		fs := config.NewFileStore(m.path)
		if err := fs.Load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load settings file at %s: %w", m.path, err)
		}
		m.store = fs
	default:
		return nil, fmt.Errorf("unknown store backend '%s'", m.backend)
	}

	return m.store, nil
}

// IsReady reports whether a backend is open and ready
func (m *StoreManager) IsReady() bool {
	store := m.Store()
	return store != nil && store.IsReady()
}

// Get reads from the open backend
func (m *StoreManager) Get(ctx context.Context, section, key string) (any, bool, error) {
	store := m.Store()
	if store == nil {
		return nil, false, theme.ErrConfigUnavailable
	}
	return store.Get(ctx, section, key)
}

// Set writes to the open backend
func (m *StoreManager) Set(ctx context.Context, section, key string, value any) error {
	store := m.Store()
	if store == nil {
		return theme.ErrConfigUnavailable
	}
	return store.Set(ctx, section, key, value)
}

// Remove deletes from the open backend
func (m *StoreManager) Remove(ctx context.Context, section, key string) error {
	store := m.Store()
	if store == nil {
		return theme.ErrConfigUnavailable
	}
	return store.Remove(ctx, section, key)
}

// Keys lists a section of the open backend
func (m *StoreManager) Keys(ctx context.Context, section string) ([]string, error) {
	store := m.Store()
	if store == nil {
		return nil, theme.ErrConfigUnavailable
	}
	lister, ok := store.(KeyLister)
	if !ok {
		return nil, fmt.Errorf("store backend '%s' cannot list keys", m.backend)
	}
	return lister.Keys(ctx, section)
}

// RecordExport appends to the export history. Backends without a history
// drop the record.
func (m *StoreManager) RecordExport(ctx context.Context, variant, policy string, written int) error {
	history, ok := m.History()
	if !ok {
		return nil
	}
	return history.RecordExport(ctx, variant, policy, written)
}

// Store returns the open store, or nil before Open
func (m *StoreManager) Store() ConfigStore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// History returns the export history, available with the sqlite backend only
func (m *StoreManager) History() (*db.HistoryStore, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history, m.history != nil
}

// Close closes the backend
func (m *StoreManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.database != nil {
		m.logger.Debug("closing settings database", "path", m.path)
		err = m.database.Close()
	}
	m.database = nil
	m.store = nil
	m.history = nil
	return err
}
