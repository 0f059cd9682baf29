package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ajramos/themesync/internal/theme"
)

// ThemeUpdateCallback represents a function that gets called when theme changes
type ThemeUpdateCallback func(*theme.Palette) error

// ComponentRegistration represents a component that can receive theme updates
type ComponentRegistration struct {
	name     string
	callback ThemeUpdateCallback
}

// ThemeServiceImpl implements ThemeService
type ThemeServiceImpl struct {
	mu sync.Mutex

	store          ConfigStore
	catalog        ThemeCatalog
	loader         PaletteLoader
	sync           SyncService
	section        string
	defaultVariant theme.Variant
	logger         *log.Logger

	// Resolution state, reset by Invalidate
	resolved    bool
	provisional bool // resolved while the store was not ready
	active      theme.Variant
	palette     *theme.Palette

	// Component registration system
	registeredComponents []ComponentRegistration
}

// NewThemeService creates a new theme service
func NewThemeService(store ConfigStore, catalog ThemeCatalog, loader PaletteLoader, syncer SyncService, section string, defaultVariant theme.Variant, logger *log.Logger) *ThemeServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &ThemeServiceImpl{
		store:          store,
		catalog:        catalog,
		loader:         loader,
		sync:           syncer,
		section:        section,
		defaultVariant: defaultVariant,
		logger:         logger.WithPrefix("theme"),
	}
}

// CurrentPalette returns the palette of the active theme, resolving it on
// first use. The result is cached until Invalidate or StoreReady.
func (s *ThemeServiceImpl) CurrentPalette(ctx context.Context) (*theme.Palette, error) {
	s.mu.Lock()
	if s.resolved {
		p := s.palette.Clone()
		s.mu.Unlock()
		return p, nil
	}

	palette, err := s.resolve(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	components := slices.Clone(s.registeredComponents)
	s.mu.Unlock()

	if err := notifyComponents(components, palette.Clone()); err != nil {
		s.logger.Warn("failed to apply theme to components", "err", err)
	}
	return palette.Clone(), nil
}

// ActiveVariant returns the variant of the resolved palette
func (s *ThemeServiceImpl) ActiveVariant() (theme.Variant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.resolved
}

// Select persists v as the selected theme and applies it
func (s *ThemeServiceImpl) Select(ctx context.Context, v theme.Variant) error {
	if v.IsZero() {
		return ErrInvalidInput
	}
	if err := s.checkInstalled(v); err != nil {
		return err
	}
	if !s.storeReady() {
		return theme.ErrConfigUnavailable
	}
	if err := s.store.Set(ctx, s.section, KeySelected, v.String()); err != nil {
		return fmt.Errorf("failed to select theme '%s': %w", v, err)
	}

	s.mu.Lock()
	s.resolved = false
	palette, err := s.resolve(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	active := s.active
	components := slices.Clone(s.registeredComponents)
	s.mu.Unlock()

	if active != v {
		s.logger.Warn("selected theme could not be applied", "selected", v, "active", active)
	}
	if err := notifyComponents(components, palette.Clone()); err != nil {
		return fmt.Errorf("failed to notify components of theme change: %w", err)
	}
	return nil
}

// Invalidate drops the resolved palette; the next CurrentPalette resolves again
func (s *ThemeServiceImpl) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = false
	s.provisional = false
	s.palette = nil
}

// StoreReady is called once the config store becomes usable. A palette that
// was resolved without the store is dropped so the persisted selection is
// honored on the next CurrentPalette.
func (s *ThemeServiceImpl) StoreReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.provisional {
		return
	}
	s.logger.Debug("config store ready, dropping provisional theme", "variant", s.active)
	s.resolved = false
	s.provisional = false
	s.palette = nil
}

// ListVariants returns every installed variant
func (s *ThemeServiceImpl) ListVariants(ctx context.Context) ([]theme.Variant, error) {
	return s.catalog.ListVariants()
}

// RegisterComponent registers a component to receive theme updates
func (s *ThemeServiceImpl) RegisterComponent(name string, callback ThemeUpdateCallback) error {
	if strings.TrimSpace(name) == "" || callback == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	s.registeredComponents = append(s.registeredComponents, ComponentRegistration{
		name:     name,
		callback: callback,
	})
	var current *theme.Palette
	if s.resolved {
		current = s.palette.Clone()
	}
	s.mu.Unlock()

	// If we have a current theme, apply it to the new component immediately
	if current != nil {
		if err := callback(current); err != nil {
			return fmt.Errorf("failed to apply current theme to component '%s': %w", name, err)
		}
	}
	return nil
}

// UnregisterComponent removes a component from theme updates
func (s *ThemeServiceImpl) UnregisterComponent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, component := range s.registeredComponents {
		if component.name == name {
			s.registeredComponents = append(s.registeredComponents[:i], s.registeredComponents[i+1:]...)
			break
		}
	}
}

// resolve runs the resolution chain. Callers hold s.mu.
func (s *ThemeServiceImpl) resolve(ctx context.Context) (*theme.Palette, error) {
	ready := s.storeReady()

	var (
		v       theme.Variant
		palette *theme.Palette
		err     error
	)
	if !ready {
		s.logger.Debug("config store not ready, using default theme", "variant", s.defaultVariant)
		v = s.defaultVariant
		palette, _, err = s.loader.Load(ctx, v)
	} else {
		v, err = s.selectedVariant(ctx)
		if err == nil && s.sync != nil {
			err = s.sync.Export(ctx, v, FillIfMissing)
		}
		if err == nil {
			palette, _, err = s.loader.Load(ctx, v)
		}
	}

	if err != nil {
		if ready {
			s.logger.Warn("falling back to default theme", "selected", v, "err", err)
			fallback, _, derr := s.loader.Load(ctx, s.defaultVariant)
			if derr == nil {
				if s.sync != nil {
					if xerr := s.sync.Export(ctx, s.defaultVariant, FillIfMissing); xerr != nil {
						s.logger.Warn("failed to export default theme", "variant", s.defaultVariant, "err", xerr)
					}
				}
				return s.commit(s.defaultVariant, fallback, ready), nil
			}
			return nil, fmt.Errorf("%w: selected theme '%s': %w; default theme '%s': %w",
				ErrNoUsableTheme, v, err, s.defaultVariant, derr)
		}
		return nil, fmt.Errorf("%w: default theme '%s': %w", ErrNoUsableTheme, s.defaultVariant, err)
	}
	return s.commit(v, palette, ready), nil
}

func (s *ThemeServiceImpl) commit(v theme.Variant, palette *theme.Palette, ready bool) *theme.Palette {
	s.resolved = true
	s.provisional = !ready
	s.active = v
	s.palette = palette
	s.logger.Info("theme resolved", "variant", v)
	return palette
}

// selectedVariant reads the persisted selection; an unset selection is the default
func (s *ThemeServiceImpl) selectedVariant(ctx context.Context) (theme.Variant, error) {
	raw, ok, err := s.store.Get(ctx, s.section, KeySelected)
	if err != nil {
		return s.defaultVariant, err
	}
	if !ok {
		return s.defaultVariant, nil
	}
	str, isStr := raw.(string)
	if !isStr {
		return s.defaultVariant, fmt.Errorf("'%s' is not a string: %v", KeySelected, raw)
	}
	return theme.ParseVariant(str)
}

func (s *ThemeServiceImpl) checkInstalled(v theme.Variant) error {
	p, err := s.catalog.Provider(v.Theme)
	if err != nil {
		return err
	}
	modes := p.Modes()
	if !slices.Contains(modes, v.Mode) {
		return &theme.ModeNotSupportedError{ID: v.Theme, Mode: v.Mode, Available: modes}
	}
	return nil
}

func (s *ThemeServiceImpl) storeReady() bool {
	return s.store != nil && s.store.IsReady()
}

// notifyComponents sends theme updates to all registered components
func notifyComponents(components []ComponentRegistration, palette *theme.Palette) error {
	var errors []string

	for _, component := range components {
		if err := component.callback(palette); err != nil {
			errors = append(errors, fmt.Sprintf("component '%s': %v", component.name, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("theme update errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
