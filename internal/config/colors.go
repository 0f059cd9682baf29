package config

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Color represents a palette color value, either "#RRGGBB" or a named color
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"
)

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(strings.TrimSpace(c))
}

// String returns color as string. Hex values are returned verbatim so their
// original casing survives a round trip through the store.
func (c Color) String() string {
	if c.isHex() {
		return string(c)
	}
	if c == DefaultColor {
		return "-"
	}
	col := c.Color().Hex()
	if col < 0 {
		return "-"
	}
	return fmt.Sprintf("#%06x", col)
}

// isHex accepts #rgb, #rrggbb and #rrggbbaa
func (c Color) isHex() bool {
	if len(c) == 0 || c[0] != '#' {
		return false
	}
	switch len(c) {
	case 4, 7, 9:
	default:
		return false
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// Color returns the tcell color
func (c Color) Color() tcell.Color {
	if c == DefaultColor {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// NormalizeColor returns the canonical form of a palette color. Hex values
// are kept verbatim, color names known to tcell (in any case) become
// lowercase "#rrggbb", and any other value such as "rgb(0,0,0)" is passed
// through for the consumer to interpret. Only an empty value is an error.
func NormalizeColor(s string) (string, error) {
	c := NewColor(s)
	if c == "" {
		return "", fmt.Errorf("empty color")
	}
	if c.isHex() {
		return string(c), nil
	}
	name := Color(strings.ToLower(string(c)))
	if _, ok := tcell.ColorNames[string(name)]; ok {
		return name.String(), nil
	}
	return string(c), nil
}
