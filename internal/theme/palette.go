package theme

// Palette is the in-memory color set produced by loading one theme variant.
// The Editor* fields feed the color scheme; Primary, Accent and Extra are
// passed through for consumers outside the engine.
type Palette struct {
	Variant Variant `yaml:"-"`

	EditorBackground  string `yaml:"EDITOR_BACKGROUND"`
	EditorCurrentLine string `yaml:"EDITOR_CURRENTLINE"`
	EditorCurrentCell string `yaml:"EDITOR_CURRENTCELL"`
	EditorOccurrence  string `yaml:"EDITOR_OCCURRENCE"`
	EditorCtrlClick   string `yaml:"EDITOR_CTRLCLICK"`
	EditorSideAreas   string `yaml:"EDITOR_SIDEAREAS"`
	EditorMatchedP    string `yaml:"EDITOR_MATCHED_P"`
	EditorUnmatchedP  string `yaml:"EDITOR_UNMATCHED_P"`

	EditorNormal     string `yaml:"EDITOR_NORMAL"`
	EditorKeyword    string `yaml:"EDITOR_KEYWORD"`
	EditorBuiltin    string `yaml:"EDITOR_BUILTIN"`
	EditorDefinition string `yaml:"EDITOR_DEFINITION"`
	EditorComment    string `yaml:"EDITOR_COMMENT"`
	EditorString     string `yaml:"EDITOR_STRING"`
	EditorNumber     string `yaml:"EDITOR_NUMBER"`
	EditorInstance   string `yaml:"EDITOR_INSTANCE"`
	EditorMagic      string `yaml:"EDITOR_MAGIC"`

	Primary string            `yaml:"COLOR_PRIMARY"`
	Accent  string            `yaml:"COLOR_ACCENT"`
	Extra   map[string]string `yaml:"-"`
}

// schemeField binds a scheme key to its palette definition name and accessor
type schemeField struct {
	key   string
	field string
	get   func(*Palette) *string
}

var schemeFields = []schemeField{
	{"background", "EDITOR_BACKGROUND", func(p *Palette) *string { return &p.EditorBackground }},
	{"currentline", "EDITOR_CURRENTLINE", func(p *Palette) *string { return &p.EditorCurrentLine }},
	{"currentcell", "EDITOR_CURRENTCELL", func(p *Palette) *string { return &p.EditorCurrentCell }},
	{"occurrence", "EDITOR_OCCURRENCE", func(p *Palette) *string { return &p.EditorOccurrence }},
	{"ctrlclick", "EDITOR_CTRLCLICK", func(p *Palette) *string { return &p.EditorCtrlClick }},
	{"sideareas", "EDITOR_SIDEAREAS", func(p *Palette) *string { return &p.EditorSideAreas }},
	{"matched_p", "EDITOR_MATCHED_P", func(p *Palette) *string { return &p.EditorMatchedP }},
	{"unmatched_p", "EDITOR_UNMATCHED_P", func(p *Palette) *string { return &p.EditorUnmatchedP }},
	{"normal", "EDITOR_NORMAL", func(p *Palette) *string { return &p.EditorNormal }},
	{"keyword", "EDITOR_KEYWORD", func(p *Palette) *string { return &p.EditorKeyword }},
	{"builtin", "EDITOR_BUILTIN", func(p *Palette) *string { return &p.EditorBuiltin }},
	{"definition", "EDITOR_DEFINITION", func(p *Palette) *string { return &p.EditorDefinition }},
	{"comment", "EDITOR_COMMENT", func(p *Palette) *string { return &p.EditorComment }},
	{"string", "EDITOR_STRING", func(p *Palette) *string { return &p.EditorString }},
	{"number", "EDITOR_NUMBER", func(p *Palette) *string { return &p.EditorNumber }},
	{"instance", "EDITOR_INSTANCE", func(p *Palette) *string { return &p.EditorInstance }},
	{"magic", "EDITOR_MAGIC", func(p *Palette) *string { return &p.EditorMagic }},
}

// SchemeKeys is the fixed, ordered key set of a color scheme
var SchemeKeys = func() []string {
	keys := make([]string, len(schemeFields))
	for i, f := range schemeFields {
		keys[i] = f.key
	}
	return keys
}()

// FieldNames returns the palette definition names of the required fields,
// in scheme key order
func FieldNames() []string {
	names := make([]string, len(schemeFields))
	for i, f := range schemeFields {
		names[i] = f.field
	}
	return names
}

// Set assigns a palette field by its definition name (e.g. "EDITOR_BACKGROUND").
// Unknown names land in Extra.
func (p *Palette) Set(field, value string) {
	for _, f := range schemeFields {
		if f.field == field {
			*f.get(p) = value
			return
		}
	}
	switch field {
	case "COLOR_PRIMARY":
		p.Primary = value
	case "COLOR_ACCENT":
		p.Accent = value
	default:
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		p.Extra[field] = value
	}
}

// Get returns a palette field by its definition name
func (p *Palette) Get(field string) (string, bool) {
	for _, f := range schemeFields {
		if f.field == field {
			return *f.get(p), true
		}
	}
	switch field {
	case "COLOR_PRIMARY":
		return p.Primary, true
	case "COLOR_ACCENT":
		return p.Accent, true
	}
	v, ok := p.Extra[field]
	return v, ok
}

// Validate checks that every required field is set and, when normalize is
// non-nil, that it converts to a usable color. Normalized values replace the
// originals.
func (p *Palette) Validate(normalize func(string) (string, error)) error {
	var missing, invalid []string
	for _, f := range schemeFields {
		ptr := f.get(p)
		if *ptr == "" {
			missing = append(missing, f.field)
			continue
		}
		if normalize == nil {
			continue
		}
		c, err := normalize(*ptr)
		if err != nil {
			invalid = append(invalid, f.field)
			continue
		}
		*ptr = c
	}
	if len(missing) > 0 || len(invalid) > 0 {
		return &PaletteIncompleteError{Variant: p.Variant, Missing: missing, Invalid: invalid}
	}
	return nil
}

// Clone returns a deep copy so cached palettes cannot be mutated by callers
func (p *Palette) Clone() *Palette {
	if p == nil {
		return nil
	}
	c := *p
	if p.Extra != nil {
		c.Extra = make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// StyleAsset is the stylesheet text of a variant plus its optional resource bundle
type StyleAsset struct {
	Stylesheet string
	Bundle     []byte
	Source     string
}
