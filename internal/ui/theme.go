// Package ui provides the PalletPad application UI components.
//
// This file defines a custom compact Fyne theme for a dense shop-floor
// layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PalletPadTheme wraps the default Fyne theme with compact sizing overrides
// so the editor canvas gets as much of the window as possible.
type PalletPadTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewPalletPadTheme creates a new PalletPadTheme with the system default
// variant.
func NewPalletPadTheme() *PalletPadTheme {
	return &PalletPadTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// NewPalletPadThemeWithVariant creates a PalletPadTheme with a specific
// light/dark variant.
func NewPalletPadThemeWithVariant(variant fyne.ThemeVariant) *PalletPadTheme {
	return &PalletPadTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *PalletPadTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// ThemeForName maps the persisted config value ("light", "dark", "system")
// to a theme instance. Unknown values fall back to the system default.
func ThemeForName(name string) *PalletPadTheme {
	switch name {
	case "light":
		return NewPalletPadThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewPalletPadThemeWithVariant(theme.VariantDark)
	default:
		return NewPalletPadTheme()
	}
}

// Color delegates to the base theme with the stored variant.
func (t *PalletPadTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *PalletPadTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *PalletPadTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense layout.
func (t *PalletPadTheme) Size(name fyne.ThemeSizeName) float32 {
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
