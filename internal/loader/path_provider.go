package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ajramos/themesync/internal/theme"
)

// PaletteFile is the definition file every path-based theme carries
const PaletteFile = "palette.yaml"

// paletteDef mirrors palette.yaml. Color values are either literals or
// "$Table.Key" references into the declared color-primitive modules.
type paletteDef struct {
	Name     string                       `yaml:"name"`
	Requires []string                     `yaml:"requires"`
	Primary  string                       `yaml:"primary"`
	Accent   string                       `yaml:"accent"`
	Modes    map[string]map[string]string `yaml:"modes"`
}

// PathProvider serves a theme stored as a directory:
//
//	<dir>/palette.yaml
//	<dir>/<module>.toml           one per entry of "requires"
//	<dir>/<mode>/<mode>style.qss
//	<dir>/<mode>/<mode>style.rcc  optional
type PathProvider struct {
	dir   string
	id    theme.ThemeID
	def   paletteDef
	modes []theme.UIMode
}

// NewPathProvider reads the palette definition in dir without evaluating any
// color reference. A missing or malformed definition is a structural error.
func NewPathProvider(dir string) (*PathProvider, error) {
	path := filepath.Join(dir, PaletteFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &theme.StructuralError{Path: dir, Reason: "missing " + PaletteFile}
		}
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}

	var def paletteDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &theme.StructuralError{Path: path, Reason: fmt.Sprintf("malformed palette definition (%v)", err)}
	}

	p := &PathProvider{dir: dir, id: theme.ThemeID(filepath.Base(dir)), def: def}
	for raw := range def.Modes {
		if _, err := theme.ParseMode(raw); err != nil {
			return nil, &theme.StructuralError{Path: path, Reason: fmt.Sprintf("unknown mode '%s'", raw)}
		}
	}
	for _, m := range theme.Modes {
		if _, ok := def.Modes[string(m)]; ok {
			p.modes = append(p.modes, m)
		}
	}
	return p, nil
}

func (p *PathProvider) ID() theme.ThemeID { return p.id }
func (p *PathProvider) Name() string { return p.def.Name }
func (p *PathProvider) Modes() []theme.UIMode { return append([]theme.UIMode(nil), p.modes...) }

// Dir returns the theme directory
func (p *PathProvider) Dir() string { return p.dir }

// Palette evaluates the mode's definitions against a fresh namespace built
// from the declared modules. Nothing leaks between evaluations.
func (p *PathProvider) Palette(mode theme.UIMode) (*theme.Palette, error) {
	v := theme.NewVariant(p.id, mode)
	defs, ok := p.def.Modes[string(mode)]
	if !ok {
		return nil, &theme.ModeNotSupportedError{ID: p.id, Mode: mode, Available: p.Modes()}
	}

	ns, missing, err := p.namespace()
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &theme.PaletteIncompleteError{Variant: v, Missing: missing}
	}

	pal := &theme.Palette{Variant: v}
	var unresolved []string

	set := func(field, raw string) {
		val, ok := resolve(raw, ns)
		if !ok {
			unresolved = append(unresolved, fmt.Sprintf("%s (%s)", field, raw))
			return
		}
		pal.Set(field, val)
	}

	if p.def.Primary != "" {
		set("COLOR_PRIMARY", p.def.Primary)
	}
	if p.def.Accent != "" {
		set("COLOR_ACCENT", p.def.Accent)
	}

	fields := make([]string, 0, len(defs))
	for f := range defs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		set(f, defs[f])
	}

	if len(unresolved) > 0 {
		return nil, &theme.PaletteIncompleteError{Variant: v, Invalid: unresolved}
	}
	return pal, nil
}

// Stylesheet reads the mode's stylesheet and optional resource bundle
func (p *PathProvider) Stylesheet(mode theme.UIMode) (*theme.StyleAsset, error) {
	path := filepath.Join(p.dir, filepath.FromSlash(theme.StylesheetPath(mode)))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &theme.StylesheetMissingError{Variant: theme.NewVariant(p.id, mode)}
	}

	asset := &theme.StyleAsset{Stylesheet: string(data), Source: path}
	bundle, err := os.ReadFile(filepath.Join(p.dir, filepath.FromSlash(theme.BundlePath(mode))))
	if err == nil {
		asset.Bundle = bundle
	}
	return asset, nil
}

// namespace loads every required module into a "Table.Key" -> color map
func (p *PathProvider) namespace() (map[string]string, []string, error) {
	ns := make(map[string]string)
	var missing []string

	for _, module := range p.def.Requires {
		if module == "" || strings.ContainsAny(module, `/\.`) {
			return nil, nil, &theme.StructuralError{Path: p.dir, Reason: fmt.Sprintf("invalid module name '%s'", module)}
		}

		var tables map[string]map[string]any
		if _, err := toml.DecodeFile(filepath.Join(p.dir, module+".toml"), &tables); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, "module "+module)
				continue
			}
			return nil, nil, fmt.Errorf("failed to parse module '%s': %w", module, err)
		}

		for table, entries := range tables {
			for key, val := range entries {
				if s, ok := val.(string); ok {
					ns[table+"."+key] = s
				}
			}
		}
	}
	return ns, missing, nil
}

// resolve returns a literal unchanged and looks up "$Table.Key" references
func resolve(raw string, ns map[string]string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "$") {
		return raw, true
	}
	val, ok := ns[raw[1:]]
	return val, ok
}
