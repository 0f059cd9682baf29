package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"

	"github.com/ajramos/themesync/internal/theme"
)

const maxSuggestions = 3

// Registry is the catalog of installed themes. Scan results are cached until
// Invalidate; the next public call scans again.
type Registry struct {
	mu         sync.Mutex
	strategies []Strategy
	logger     *log.Logger

	valid      bool
	providers  map[theme.ThemeID]theme.PaletteProvider
	ids        []theme.ThemeID
	scanErrors []error
}

// New creates a registry over the given strategies, in priority order
func New(logger *log.Logger, strategies ...Strategy) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		strategies: strategies,
		logger:     logger.WithPrefix("registry"),
	}
}

// SetStrategies replaces the discovery strategies and drops the cached scan
func (r *Registry) SetStrategies(strategies ...Strategy) {
	r.mu.Lock()
	r.strategies = strategies
	r.valid = false
	r.mu.Unlock()
}

// Invalidate drops the cached scan
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.valid = false
	r.mu.Unlock()
}

// ScanErrors returns the failures of the last scan, one per strategy that
// could not be read. Themes from the other strategies stay available.
func (r *Registry) ScanErrors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.ensureScanned()
	return append([]error(nil), r.scanErrors...)
}

// ListThemes returns the ids of all installed themes, sorted
func (r *Registry) ListThemes() ([]theme.ThemeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureScanned(); err != nil {
		return nil, err
	}
	return append([]theme.ThemeID(nil), r.ids...), nil
}

// ListModes returns the modes a theme provides
func (r *Registry) ListModes(id theme.ThemeID) ([]theme.UIMode, error) {
	p, err := r.Provider(id)
	if err != nil {
		return nil, err
	}
	return p.Modes(), nil
}

// ListVariants returns every (theme, mode) pair, sorted by persisted key.
// Modes a theme lacks are omitted.
func (r *Registry) ListVariants() ([]theme.Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureScanned(); err != nil {
		return nil, err
	}

	var variants []theme.Variant
	for _, id := range r.ids {
		for _, m := range r.providers[id].Modes() {
			variants = append(variants, theme.NewVariant(id, m))
		}
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].String() < variants[j].String() })
	return variants, nil
}

// Provider returns the provider of a theme, or a NotFoundError carrying
// close matches
func (r *Registry) Provider(id theme.ThemeID) (theme.PaletteProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureScanned(); err != nil {
		return nil, err
	}

	if p, ok := r.providers[id]; ok {
		return p, nil
	}
	return nil, &theme.NotFoundError{ID: id, Suggestions: r.suggest(id)}
}

// ensureScanned runs the strategies when the cache is invalid; callers hold
// the lock. A failing strategy contributes no themes and is recorded in
// scanErrors; the scan itself only fails when every strategy failed.
func (r *Registry) ensureScanned() error {
	if r.valid {
		return nil
	}

	providers := make(map[theme.ThemeID]theme.PaletteProvider)
	var scanErrors []error
	for _, s := range r.strategies {
		found, err := s.Discover()
		if err != nil {
			err = fmt.Errorf("theme discovery (%s) failed: %w", s.Name(), err)
			r.logger.Error("skipping theme source", "strategy", s.Name(), "err", err)
			scanErrors = append(scanErrors, err)
			continue
		}
		for _, p := range found {
			id := p.ID()
			if len(p.Modes()) == 0 {
				r.logger.Warn("skipping theme without modes", "theme", id, "strategy", s.Name())
				continue
			}
			if _, dup := providers[id]; dup {
				r.logger.Debug("theme shadowed by higher priority source", "theme", id, "strategy", s.Name())
				continue
			}
			providers[id] = p
		}
	}

	ids := make([]theme.ThemeID, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if len(r.strategies) > 0 && len(scanErrors) == len(r.strategies) {
		r.scanErrors = scanErrors
		return errors.Join(scanErrors...)
	}

	r.scanErrors = scanErrors
	r.providers = providers
	r.ids = ids
	r.valid = true
	r.logger.Debug("scanned themes", "count", len(ids))
	return nil
}

func (r *Registry) suggest(id theme.ThemeID) []theme.ThemeID {
	names := make([]string, len(r.ids))
	for i, known := range r.ids {
		names[i] = string(known)
	}

	var out []theme.ThemeID
	for _, m := range fuzzy.Find(string(id), names) {
		out = append(out, theme.ThemeID(m.Str))
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
