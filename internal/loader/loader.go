package loader

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ajramos/themesync/internal/config"
	"github.com/ajramos/themesync/internal/theme"
)

// Resolver finds the provider of a theme; the registry implements it
type Resolver interface {
	Provider(id theme.ThemeID) (theme.PaletteProvider, error)
}

type cached struct {
	palette *theme.Palette
	asset   *theme.StyleAsset
}

// Loader loads and caches variants. Successful loads are kept for the life of
// the process and the resource bundles they reference are never released, so
// stylesheets handed out earlier stay valid. Failures are not cached.
type Loader struct {
	mu       sync.Mutex
	resolver Resolver
	logger   *log.Logger

	cache   map[theme.Variant]cached
	bundles map[string][]byte

	current    theme.Variant
	hasCurrent bool
}

// New creates a loader resolving providers through r
func New(r Resolver, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		resolver: r,
		logger:   logger.WithPrefix("loader"),
		cache:    make(map[theme.Variant]cached),
		bundles:  make(map[string][]byte),
	}
}

// Load returns the palette and stylesheet of v and makes it the current variant
func (l *Loader) Load(ctx context.Context, v theme.Variant) (*theme.Palette, *theme.StyleAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.cache[v]; ok {
		l.setCurrent(v)
		return c.palette.Clone(), copyAsset(c.asset), nil
	}

	c, err := l.load(v)
	if err != nil {
		return nil, nil, err
	}

	l.cache[v] = c
	if c.asset.Bundle != nil {
		l.bundles[c.asset.Source] = c.asset.Bundle
	}
	l.setCurrent(v)
	l.logger.Debug("loaded theme", "variant", v.String())

	return c.palette.Clone(), copyAsset(c.asset), nil
}

func (l *Loader) load(v theme.Variant) (cached, error) {
	p, err := l.resolver.Provider(v.Theme)
	if err != nil {
		return cached{}, err
	}

	modes := p.Modes()
	if !slices.Contains(modes, v.Mode) {
		return cached{}, &theme.ModeNotSupportedError{ID: v.Theme, Mode: v.Mode, Available: modes}
	}

	pal, err := p.Palette(v.Mode)
	if err != nil {
		return cached{}, fmt.Errorf("failed to load theme '%s': %w", v, err)
	}
	pal.Variant = v
	if err := pal.Validate(config.NormalizeColor); err != nil {
		return cached{}, err
	}

	asset, err := p.Stylesheet(v.Mode)
	if err != nil {
		return cached{}, err
	}

	return cached{palette: pal, asset: asset}, nil
}

// Current returns the most recently loaded variant
func (l *Loader) Current() (theme.Variant, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.hasCurrent
}

// Restore makes v current again, reloading it if it is not cached. With ok
// false the loader goes back to having no current variant.
func (l *Loader) Restore(ctx context.Context, v theme.Variant, ok bool) error {
	if !ok {
		l.mu.Lock()
		l.current, l.hasCurrent = theme.Variant{}, false
		l.mu.Unlock()
		return nil
	}
	_, _, err := l.Load(ctx, v)
	return err
}

// Bundles returns the number of resource bundles held alive
func (l *Loader) Bundles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bundles)
}

func (l *Loader) setCurrent(v theme.Variant) {
	l.current, l.hasCurrent = v, true
}

func copyAsset(a *theme.StyleAsset) *theme.StyleAsset {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
