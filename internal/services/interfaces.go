package services

import (
	"context"

	"github.com/ajramos/themesync/internal/theme"
)

// ConfigStore is the persisted configuration the engine keeps in sync.
// Values are strings, booleans, numbers or string lists.
type ConfigStore interface {
	IsReady() bool
	Get(ctx context.Context, section, key string) (any, bool, error)
	Set(ctx context.Context, section, key string, value any) error
	Remove(ctx context.Context, section, key string) error
}

// KeyLister is implemented by stores that can enumerate a section
type KeyLister interface {
	Keys(ctx context.Context, section string) ([]string, error)
}

// ThemeCatalog lists installed themes; implemented by the registry
type ThemeCatalog interface {
	ListVariants() ([]theme.Variant, error)
	Provider(id theme.ThemeID) (theme.PaletteProvider, error)
}

// PaletteLoader loads variants and tracks the last one loaded
type PaletteLoader interface {
	Load(ctx context.Context, v theme.Variant) (*theme.Palette, *theme.StyleAsset, error)
	Current() (theme.Variant, bool)
	Restore(ctx context.Context, v theme.Variant, ok bool) error
}

// ExportRecorder keeps a history of exports
type ExportRecorder interface {
	RecordExport(ctx context.Context, variant, policy string, written int) error
}

// SyncService keeps persisted color schemes consistent with installed themes
type SyncService interface {
	// Export writes the scheme and display name of one variant
	Export(ctx context.Context, v theme.Variant, policy ExportPolicy) error
	ExportAll(ctx context.Context, policy ExportPolicy) (ExportReport, error)
	IsComplete(ctx context.Context, v theme.Variant) bool

	// Preference operations
	PublishNames(ctx context.Context) ([]string, error)
	ResetToDefault(ctx context.Context, v theme.Variant) error
	CreateCustom(ctx context.Context, from string) (string, error)
	DeleteCustom(ctx context.Context, name string) error
	ReadScheme(ctx context.Context, name string) (theme.ColorScheme, string, error)
	StoredSchemes(ctx context.Context) ([]string, error)
	DisplayName(v theme.Variant) string
}

// ThemeService resolves the active theme for the rest of the application
type ThemeService interface {
	CurrentPalette(ctx context.Context) (*theme.Palette, error)
	ActiveVariant() (theme.Variant, bool)
	Select(ctx context.Context, v theme.Variant) error
	Invalidate()
	StoreReady()
	ListVariants(ctx context.Context) ([]theme.Variant, error)

	// Component registration
	RegisterComponent(name string, callback ThemeUpdateCallback) error
	UnregisterComponent(name string)
}
