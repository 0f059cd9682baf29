package theme

// SchemeEntry is one key/value pair of a color scheme
type SchemeEntry struct {
	Key   string
	Value string
}

// ColorScheme is the fixed-shape mapping persisted for every variant, ordered
// as SchemeKeys
type ColorScheme []SchemeEntry

// Get returns the value for key
func (s ColorScheme) Get(key string) (string, bool) {
	for _, e := range s {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Map returns the scheme as a plain map
func (s ColorScheme) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, e := range s {
		m[e.Key] = e.Value
	}
	return m
}

// Extract derives the color scheme of a palette. The mapping is a pure 1:1
// copy; an empty field means the palette skipped validation and is reported
// as incomplete.
func Extract(p *Palette) (ColorScheme, error) {
	if p == nil {
		return nil, &PaletteIncompleteError{Missing: FieldNames()}
	}

	scheme := make(ColorScheme, 0, len(schemeFields))
	var missing []string
	for _, f := range schemeFields {
		v := *f.get(p)
		if v == "" {
			missing = append(missing, f.field)
			continue
		}
		scheme = append(scheme, SchemeEntry{Key: f.key, Value: v})
	}
	if len(missing) > 0 {
		return nil, &PaletteIncompleteError{Variant: p.Variant, Missing: missing}
	}
	return scheme, nil
}
