package theme

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is against the typed errors below
var (
	ErrThemeNotFound     = errors.New("theme not found")
	ErrModeNotSupported  = errors.New("ui mode not supported")
	ErrPaletteIncomplete = errors.New("palette incomplete")
	ErrStylesheetMissing = errors.New("stylesheet missing")
	ErrStructural        = errors.New("invalid theme structure")
	ErrConfigUnavailable = errors.New("configuration store not ready")
)

// NotFoundError reports a theme identifier with no installed provider
type NotFoundError struct {
	ID          ThemeID
	Suggestions []ThemeID
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("theme '%s' not found", e.ID)
	if len(e.Suggestions) > 0 {
		names := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			names[i] = string(s)
		}
		msg += " (did you mean " + strings.Join(names, ", ") + "?)"
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrThemeNotFound }

// ModeNotSupportedError reports a theme that lacks the requested mode
type ModeNotSupportedError struct {
	ID        ThemeID
	Mode      UIMode
	Available []UIMode
}

func (e *ModeNotSupportedError) Error() string {
	return fmt.Sprintf("theme '%s' has no %s mode (available: %v)", e.ID, e.Mode, e.Available)
}

func (e *ModeNotSupportedError) Is(target error) bool { return target == ErrModeNotSupported }

// PaletteIncompleteError lists required palette fields that are missing or
// hold an unusable color value
type PaletteIncompleteError struct {
	Variant Variant
	Missing []string
	Invalid []string
}

func (e *PaletteIncompleteError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	if e.Variant.IsZero() {
		return "palette incomplete: " + strings.Join(parts, "; ")
	}
	return fmt.Sprintf("palette for '%s' incomplete: %s", e.Variant, strings.Join(parts, "; "))
}

func (e *PaletteIncompleteError) Is(target error) bool { return target == ErrPaletteIncomplete }

// StylesheetMissingError reports a mode without a stylesheet
type StylesheetMissingError struct {
	Variant Variant
}

func (e *StylesheetMissingError) Error() string {
	return fmt.Sprintf("stylesheet not found for theme '%s' in %s mode", e.Variant.Theme, e.Variant.Mode)
}

func (e *StylesheetMissingError) Is(target error) bool { return target == ErrStylesheetMissing }

// StructuralError reports a malformed theme directory found by legacy discovery
type StructuralError struct {
	Path   string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("theme directory structure is invalid: %s in %s", e.Reason, e.Path)
}

func (e *StructuralError) Is(target error) bool { return target == ErrStructural }
