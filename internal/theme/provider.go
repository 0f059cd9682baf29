package theme

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"
)

// PaletteProvider is the capability every installed theme exposes
type PaletteProvider interface {
	ID() ThemeID
	// Name is the human readable theme name; empty when the theme declares none
	Name() string
	Modes() []UIMode
	Palette(mode UIMode) (*Palette, error)
	Stylesheet(mode UIMode) (*StyleAsset, error)
}

var (
	providersMu sync.RWMutex
	providers   = make(map[ThemeID]PaletteProvider)
)

// Register makes a theme provider available to package discovery. It is meant
// to be called from the init function of a theme package and panics if the
// provider is nil or its id is already taken.
func Register(p PaletteProvider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	if p == nil {
		panic("theme: Register provider is nil")
	}
	if _, dup := providers[p.ID()]; dup {
		panic("theme: Register called twice for " + string(p.ID()))
	}
	providers[p.ID()] = p
}

// Registered returns the registered providers sorted by id
func Registered() []PaletteProvider {
	providersMu.RLock()
	defer providersMu.RUnlock()
	list := make([]PaletteProvider, 0, len(providers))
	for _, p := range providers {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	return list
}

// StaticProvider serves palettes defined as Go values and stylesheets read
// from an fs.FS laid out as <mode>/<mode>style.qss
type StaticProvider struct {
	Theme       ThemeID
	DisplayName string
	Palettes    map[UIMode]*Palette
	Styles      fs.FS
}

func (s *StaticProvider) ID() ThemeID  { return s.Theme }
func (s *StaticProvider) Name() string { return s.DisplayName }

// Modes returns the modes with a palette, in Modes order
func (s *StaticProvider) Modes() []UIMode {
	var modes []UIMode
	for _, m := range Modes {
		if _, ok := s.Palettes[m]; ok {
			modes = append(modes, m)
		}
	}
	return modes
}

func (s *StaticProvider) Palette(mode UIMode) (*Palette, error) {
	p, ok := s.Palettes[mode]
	if !ok || p == nil {
		return nil, &ModeNotSupportedError{ID: s.Theme, Mode: mode, Available: s.Modes()}
	}
	c := p.Clone()
	c.Variant = NewVariant(s.Theme, mode)
	return c, nil
}

func (s *StaticProvider) Stylesheet(mode UIMode) (*StyleAsset, error) {
	v := NewVariant(s.Theme, mode)
	if s.Styles == nil {
		return nil, &StylesheetMissingError{Variant: v}
	}
	name := StylesheetPath(mode)
	data, err := fs.ReadFile(s.Styles, name)
	if err != nil {
		return nil, &StylesheetMissingError{Variant: v}
	}
	asset := &StyleAsset{Stylesheet: string(data), Source: string(s.Theme) + ":" + name}
	if bundle, err := fs.ReadFile(s.Styles, BundlePath(mode)); err == nil {
		asset.Bundle = bundle
	}
	return asset, nil
}

// StylesheetPath is the conventional stylesheet location inside a theme
func StylesheetPath(mode UIMode) string {
	return path.Join(string(mode), fmt.Sprintf("%sstyle.qss", mode))
}

// BundlePath is the conventional compiled resource bundle location inside a theme
func BundlePath(mode UIMode) string {
	return path.Join(string(mode), fmt.Sprintf("%sstyle.rcc", mode))
}
