package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajramos/themesync/internal/theme"
)

const colorsystemTOML = `
[Primary]
B10 = "#002B36"
B20 = "#073642"
B30 = "#586E75"
B40 = "#839496"

[Accent]
Yellow = "#B58900"
Orange = "#CB4B16"
Red = "#DC322F"
Magenta = "#D33682"
Violet = "#6C71C4"
Blue = "#268BD2"
Cyan = "#2AA198"
Green = "#859900"
`

// darkPaletteYAML references every required field through the colorsystem module
const darkPaletteYAML = `name: Fixture
requires: [colorsystem]
primary: "$Accent.Blue"
modes:
  dark:
    EDITOR_BACKGROUND: "$Primary.B10"
    EDITOR_CURRENTLINE: "$Primary.B20"
    EDITOR_CURRENTCELL: "$Primary.B20"
    EDITOR_OCCURRENCE: "$Primary.B30"
    EDITOR_CTRLCLICK: "$Accent.Blue"
    EDITOR_SIDEAREAS: "$Primary.B20"
    EDITOR_MATCHED_P: "$Accent.Green"
    EDITOR_UNMATCHED_P: "$Accent.Red"
    EDITOR_NORMAL: "$Primary.B40"
    EDITOR_KEYWORD: "$Accent.Green"
    EDITOR_BUILTIN: "$Accent.Yellow"
    EDITOR_DEFINITION: "$Accent.Blue"
    EDITOR_COMMENT: "$Primary.B30"
    EDITOR_STRING: "$Accent.Cyan"
    EDITOR_NUMBER: "$Accent.Magenta"
    EDITOR_INSTANCE: "$Accent.Violet"
    EDITOR_MAGIC: "$Accent.Orange"
    ICON_1: "#FFFFFF"
`

type mapResolver map[theme.ThemeID]theme.PaletteProvider

func (m mapResolver) Provider(id theme.ThemeID) (theme.PaletteProvider, error) {
	p, ok := m[id]
	if !ok {
		return nil, &theme.NotFoundError{ID: id}
	}
	return p, nil
}

// countingProvider counts palette evaluations
type countingProvider struct {
	theme.PaletteProvider
	calls int
}

func (c *countingProvider) Palette(mode theme.UIMode) (*theme.Palette, error) {
	c.calls++
	return c.PaletteProvider.Palette(mode)
}

func writeThemeDir(t *testing.T, root, name, paletteYAML string, withModule bool, modes ...theme.UIMode) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PaletteFile), []byte(paletteYAML), 0644))
	if withModule {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "colorsystem.toml"), []byte(colorsystemTOML), 0644))
	}
	for _, m := range modes {
		qss := filepath.Join(dir, filepath.FromSlash(theme.StylesheetPath(m)))
		require.NoError(t, os.MkdirAll(filepath.Dir(qss), 0755))
		require.NoError(t, os.WriteFile(qss, []byte(fmt.Sprintf("/* %s */", m)), 0644))
	}
	return dir
}

func staticPalette() *theme.Palette {
	p := &theme.Palette{}
	for i, f := range theme.FieldNames() {
		p.Set(f, fmt.Sprintf("#1010%02X", i))
	}
	return p
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestPathProvider_Palette(t *testing.T) {
	dir := writeThemeDir(t, t.TempDir(), "fixture", darkPaletteYAML, true, theme.Dark)

	p, err := NewPathProvider(dir)
	require.NoError(t, err)
	assert.Equal(t, theme.ThemeID("fixture"), p.ID())
	assert.Equal(t, "Fixture", p.Name())
	assert.Equal(t, []theme.UIMode{theme.Dark}, p.Modes())

	pal, err := p.Palette(theme.Dark)
	require.NoError(t, err)
	assert.Equal(t, "#002B36", pal.EditorBackground)
	assert.Equal(t, "#D33682", pal.EditorNumber)
	assert.Equal(t, "#268BD2", pal.Primary)
	assert.Equal(t, "#FFFFFF", pal.Extra["ICON_1"])

	_, err = p.Palette(theme.Light)
	assert.True(t, errors.Is(err, theme.ErrModeNotSupported))
}

func TestPathProvider_StructuralErrors(t *testing.T) {
	root := t.TempDir()

	_, err := NewPathProvider(filepath.Join(root, "empty"))
	assert.True(t, errors.Is(err, theme.ErrStructural))

	dir := writeThemeDir(t, root, "broken", "modes: [dark", false)
	_, err = NewPathProvider(dir)
	assert.True(t, errors.Is(err, theme.ErrStructural))

	dir = writeThemeDir(t, root, "sepia", "modes:\n  sepia:\n    EDITOR_NORMAL: \"#000000\"\n", false)
	_, err = NewPathProvider(dir)
	assert.True(t, errors.Is(err, theme.ErrStructural))
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestPathProvider_UndeclaredModule(t *testing.T) {
	// References resolve only against declared modules
	undeclared := strings.Replace(darkPaletteYAML, "requires: [colorsystem]\n", "", 1)
	dir := writeThemeDir(t, t.TempDir(), "undeclared", undeclared, true, theme.Dark)

	p, err := NewPathProvider(dir)
	require.NoError(t, err)

	_, err = p.Palette(theme.Dark)
	var pie *theme.PaletteIncompleteError
	require.True(t, errors.As(err, &pie))
	assert.Contains(t, strings.Join(pie.Invalid, ","), "EDITOR_BACKGROUND ($Primary.B10)")
}

func TestPathProvider_MissingModuleFile(t *testing.T) {
	dir := writeThemeDir(t, t.TempDir(), "nomodule", darkPaletteYAML, false, theme.Dark)

	p, err := NewPathProvider(dir)
	require.NoError(t, err)

	_, err = p.Palette(theme.Dark)
	var pie *theme.PaletteIncompleteError
	require.True(t, errors.As(err, &pie))
	assert.Equal(t, []string{"module colorsystem"}, pie.Missing)
}

func TestPathProvider_InvalidModuleName(t *testing.T) {
	yml := strings.Replace(darkPaletteYAML, "[colorsystem]", "[../colorsystem]", 1)
	dir := writeThemeDir(t, t.TempDir(), "escape", yml, true, theme.Dark)

	p, err := NewPathProvider(dir)
	require.NoError(t, err)

	_, err = p.Palette(theme.Dark)
	assert.True(t, errors.Is(err, theme.ErrStructural))
}

func TestPathProvider_Stylesheet(t *testing.T) {
	dir := writeThemeDir(t, t.TempDir(), "fixture", darkPaletteYAML, true, theme.Dark)
	rcc := filepath.Join(dir, filepath.FromSlash(theme.BundlePath(theme.Dark)))
	require.NoError(t, os.WriteFile(rcc, []byte{0xCA, 0xFE}, 0644))

	p, err := NewPathProvider(dir)
	require.NoError(t, err)

	asset, err := p.Stylesheet(theme.Dark)
	require.NoError(t, err)
	assert.Equal(t, "/* dark */", asset.Stylesheet)
	assert.Equal(t, []byte{0xCA, 0xFE}, asset.Bundle)

	_, err = p.Stylesheet(theme.Light)
	assert.True(t, errors.Is(err, theme.ErrStylesheetMissing))
}

func TestLoader_Load(t *testing.T) {
	dir := writeThemeDir(t, t.TempDir(), "fixture", darkPaletteYAML, true, theme.Dark)
	pp, err := NewPathProvider(dir)
	require.NoError(t, err)

	l := New(mapResolver{"fixture": pp}, quietLogger())

	_, ok := l.Current()
	assert.False(t, ok)

	v := theme.NewVariant("fixture", theme.Dark)
	pal, asset, err := l.Load(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, v, pal.Variant)
	assert.Equal(t, "#002B36", pal.EditorBackground)
	assert.Equal(t, "/* dark */", asset.Stylesheet)

	cur, ok := l.Current()
	assert.True(t, ok)
	assert.Equal(t, v, cur)
}

func TestLoader_Errors(t *testing.T) {
	root := t.TempDir()
	incomplete := strings.Replace(darkPaletteYAML, "    EDITOR_MAGIC: \"$Accent.Orange\"\n", "", 1)
	incDir := writeThemeDir(t, root, "incomplete", incomplete, true, theme.Dark)
	emptyColor := strings.Replace(darkPaletteYAML, "\"$Accent.Orange\"", "\"\"", 1)
	emptyDir := writeThemeDir(t, root, "emptycolor", emptyColor, true, theme.Dark)
	noQSSDir := writeThemeDir(t, root, "noqss", darkPaletteYAML, true)

	resolver := mapResolver{}
	for _, d := range []string{incDir, emptyDir, noQSSDir} {
		p, err := NewPathProvider(d)
		require.NoError(t, err)
		resolver[p.ID()] = p
	}
	l := New(resolver, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name    string
		variant theme.Variant
		target  error
	}{
		{"unknown theme", theme.NewVariant("nope", theme.Dark), theme.ErrThemeNotFound},
		{"unsupported mode", theme.NewVariant("incomplete", theme.Light), theme.ErrModeNotSupported},
		{"missing field", theme.NewVariant("incomplete", theme.Dark), theme.ErrPaletteIncomplete},
		{"empty color", theme.NewVariant("emptycolor", theme.Dark), theme.ErrPaletteIncomplete},
		{"missing stylesheet", theme.NewVariant("noqss", theme.Dark), theme.ErrStylesheetMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pal, asset, err := l.Load(ctx, tt.variant)
			assert.Nil(t, pal)
			assert.Nil(t, asset)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	// Failed loads never become current
	_, ok := l.Current()
	assert.False(t, ok)
}

func TestLoader_ColorSyntaxes(t *testing.T) {
	yaml := darkPaletteYAML
	for from, to := range map[string]string{
		"\"$Accent.Orange\"":  "\"#fff\"",
		"\"$Accent.Violet\"":  "\"#002b36ff\"",
		"\"$Accent.Magenta\"": "\"rgb(0,0,0)\"",
		"\"$Accent.Cyan\"":    "\"Red\"",
	} {
		yaml = strings.Replace(yaml, from, to, 1)
	}
	dir := writeThemeDir(t, t.TempDir(), "syntaxes", yaml, true, theme.Dark)
	pp, err := NewPathProvider(dir)
	require.NoError(t, err)

	l := New(mapResolver{"syntaxes": pp}, quietLogger())
	pal, _, err := l.Load(context.Background(), theme.NewVariant("syntaxes", theme.Dark))
	require.NoError(t, err)
	assert.Equal(t, "#fff", pal.EditorMagic)
	assert.Equal(t, "#002b36ff", pal.EditorInstance)
	assert.Equal(t, "rgb(0,0,0)", pal.EditorNumber)
	assert.Equal(t, "#ff0000", pal.EditorString)
}

func TestLoader_CachesSuccessfulLoads(t *testing.T) {
	cp := &countingProvider{PaletteProvider: &theme.StaticProvider{
		Theme:    "static",
		Palettes: map[theme.UIMode]*theme.Palette{theme.Dark: staticPalette()},
		Styles: fstest.MapFS{
			"dark/darkstyle.qss": &fstest.MapFile{Data: []byte("QWidget {}")},
			"dark/darkstyle.rcc": &fstest.MapFile{Data: []byte{1}},
		},
	}}
	l := New(mapResolver{"static": cp}, quietLogger())
	v := theme.NewVariant("static", theme.Dark)
	ctx := context.Background()

	first, _, err := l.Load(ctx, v)
	require.NoError(t, err)
	first.EditorBackground = "#FFFFFF"

	second, _, err := l.Load(ctx, v)
	require.NoError(t, err)

	assert.Equal(t, 1, cp.calls)
	assert.Equal(t, "#101000", second.EditorBackground, "cached palette must not be mutated by callers")
	assert.Equal(t, 1, l.Bundles())
}

func TestLoader_FailuresNotCached(t *testing.T) {
	dir := writeThemeDir(t, t.TempDir(), "later", darkPaletteYAML, false, theme.Dark)
	pp, err := NewPathProvider(dir)
	require.NoError(t, err)
	l := New(mapResolver{"later": pp}, quietLogger())
	v := theme.NewVariant("later", theme.Dark)

	_, _, err = l.Load(context.Background(), v)
	require.Error(t, err)

	// Installing the missing module makes the next load succeed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "colorsystem.toml"), []byte(colorsystemTOML), 0644))
	_, _, err = l.Load(context.Background(), v)
	assert.NoError(t, err)
}

func TestLoader_Restore(t *testing.T) {
	static := &theme.StaticProvider{
		Theme:    "static",
		Palettes: map[theme.UIMode]*theme.Palette{theme.Dark: staticPalette(), theme.Light: staticPalette()},
		Styles: fstest.MapFS{
			"dark/darkstyle.qss":   &fstest.MapFile{Data: []byte("dark")},
			"light/lightstyle.qss": &fstest.MapFile{Data: []byte("light")},
		},
	}
	l := New(mapResolver{"static": static}, quietLogger())
	ctx := context.Background()
	dark := theme.NewVariant("static", theme.Dark)
	light := theme.NewVariant("static", theme.Light)

	_, _, err := l.Load(ctx, dark)
	require.NoError(t, err)
	prev, ok := l.Current()

	_, _, err = l.Load(ctx, light)
	require.NoError(t, err)

	require.NoError(t, l.Restore(ctx, prev, ok))
	cur, _ := l.Current()
	assert.Equal(t, dark, cur)

	require.NoError(t, l.Restore(ctx, theme.Variant{}, false))
	_, ok = l.Current()
	assert.False(t, ok)
}

func TestLoader_CanceledContext(t *testing.T) {
	l := New(mapResolver{}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := l.Load(ctx, theme.NewVariant("x", theme.Dark))
	assert.ErrorIs(t, err, context.Canceled)
}
