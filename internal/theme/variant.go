package theme

import (
	"fmt"
	"strings"
)

// ThemeID names an installed theme package, e.g. "solarized" or
// "spyder_themes.qdarkstyle"
type ThemeID string

// UIMode is the interface mode a palette is designed for
type UIMode string

const (
	Dark  UIMode = "dark"
	Light UIMode = "light"
)

// Modes lists every known UI mode in display order
var Modes = []UIMode{Dark, Light}

// Valid reports whether m is a known mode
func (m UIMode) Valid() bool {
	return m == Dark || m == Light
}

// ParseMode converts a string into a UIMode
func ParseMode(s string) (UIMode, error) {
	m := UIMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown ui mode %q", s)
	}
	return m, nil
}

// Variant is a theme paired with a UI mode; the unit of selection and persistence
type Variant struct {
	Theme ThemeID
	Mode  UIMode
}

// NewVariant builds a variant from its parts
func NewVariant(id ThemeID, mode UIMode) Variant {
	return Variant{Theme: id, Mode: mode}
}

// String returns the persisted key form "<theme>/<mode>"
func (v Variant) String() string {
	return string(v.Theme) + "/" + string(v.Mode)
}

// IsZero reports whether v is unset
func (v Variant) IsZero() bool {
	return v.Theme == "" && v.Mode == ""
}

// ParseVariant parses "<theme>/<mode>". The legacy form without a mode
// suffix resolves to the dark mode.
func ParseVariant(s string) (Variant, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Variant{}, fmt.Errorf("empty theme variant")
	}

	i := strings.LastIndex(s, "/")
	if i < 0 {
		return Variant{Theme: ThemeID(s), Mode: Dark}, nil
	}

	id, rawMode := s[:i], s[i+1:]
	if id == "" {
		return Variant{}, fmt.Errorf("invalid theme variant %q: missing theme", s)
	}
	mode, err := ParseMode(rawMode)
	if err != nil {
		return Variant{}, fmt.Errorf("invalid theme variant %q: %w", s, err)
	}
	return Variant{Theme: ThemeID(id), Mode: mode}, nil
}

// MustParseVariant is ParseVariant for constants; it panics on error
func MustParseVariant(s string) Variant {
	v, err := ParseVariant(s)
	if err != nil {
		panic(err)
	}
	return v
}
