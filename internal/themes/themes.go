// Package themes holds the theme packages shipped with themesync. Importing it
// registers them for package discovery.
package themes

import (
	"embed"
	"io/fs"

	"github.com/ajramos/themesync/internal/theme"
)

//go:embed styles
var styles embed.FS

// Built-in theme identifiers
const (
	Solarized  theme.ThemeID = "solarized"
	Dracula    theme.ThemeID = "dracula"
	QDarkStyle theme.ThemeID = "spyder_themes.qdarkstyle"
)

// Default is the variant used when nothing usable is selected
var Default = theme.NewVariant(Solarized, theme.Dark)

func init() {
	theme.Register(newProvider(Solarized, "Solarized", "solarized", map[theme.UIMode]*theme.Palette{
		theme.Dark:  solarizedDark,
		theme.Light: solarizedLight,
	}))
	theme.Register(newProvider(Dracula, "Dracula", "dracula", map[theme.UIMode]*theme.Palette{
		theme.Dark: draculaDark,
	}))
	theme.Register(newProvider(QDarkStyle, "", "qdarkstyle", map[theme.UIMode]*theme.Palette{
		theme.Dark:  qdarkstyleDark,
		theme.Light: qdarkstyleLight,
	}))
}

func newProvider(id theme.ThemeID, name, dir string, palettes map[theme.UIMode]*theme.Palette) *theme.StaticProvider {
	sub, err := fs.Sub(styles, "styles/"+dir)
	if err != nil {
		panic(err)
	}
	return &theme.StaticProvider{
		Theme:       id,
		DisplayName: name,
		Palettes:    palettes,
		Styles:      sub,
	}
}

// IsBuiltin reports whether id ships with themesync
func IsBuiltin(id theme.ThemeID) bool {
	return id == Solarized || id == Dracula || id == QDarkStyle
}
