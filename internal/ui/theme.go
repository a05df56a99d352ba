package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme names accepted in the app config.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// SlabViewTheme wraps the default Fyne theme with compact sizing and an
// optional fixed light/dark variant.
type SlabViewTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool // false follows the system variant
}

// NewSlabViewTheme creates a theme for a config theme name. Unknown names
// follow the system.
func NewSlabViewTheme(name string) *SlabViewTheme {
	t := &SlabViewTheme{base: theme.DefaultTheme()}
	t.SetThemeName(name)
	return t
}

// SetThemeName switches between "system", "light" and "dark".
func (t *SlabViewTheme) SetThemeName(name string) {
	switch name {
	case ThemeLight:
		t.variant, t.fixed = theme.VariantLight, true
	case ThemeDark:
		t.variant, t.fixed = theme.VariantDark, true
	default:
		t.fixed = false
	}
}

// Color delegates to the base theme, forcing the configured variant.
func (t *SlabViewTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *SlabViewTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *SlabViewTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense layout.
func (t *SlabViewTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
