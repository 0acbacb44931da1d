package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"nonprofit-assistant/session"
)

// palette overrides the base theme colors for one scheme
type palette struct {
	variant    fyne.ThemeVariant
	primary    color.Color
	secondary  color.Color
	background color.Color
	surface    color.Color
	foreground color.Color
}

var palettes = map[session.Theme]palette{
	session.ThemeLight: {
		variant:    theme.VariantLight,
		primary:    color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff},
		secondary:  color.NRGBA{R: 0x16, G: 0xa3, B: 0x4a, A: 0xff},
		background: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		surface:    color.NRGBA{R: 0xf9, G: 0xfa, B: 0xfb, A: 0xff},
		foreground: color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff},
	},
	session.ThemeDark: {
		variant:    theme.VariantDark,
		primary:    color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
		secondary:  color.NRGBA{R: 0x86, G: 0xef, B: 0xac, A: 0xff},
		background: color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff},
		surface:    color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff},
		foreground: color.NRGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff},
	},
	session.ThemeMorocco: {
		variant:    theme.VariantLight,
		primary:    color.NRGBA{R: 0xc1, G: 0x27, B: 0x2d, A: 0xff},
		secondary:  color.NRGBA{R: 0x00, G: 0x62, B: 0x33, A: 0xff},
		background: color.NRGBA{R: 0xfd, G: 0xf6, B: 0xec, A: 0xff},
		surface:    color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		foreground: color.NRGBA{R: 0x3e, G: 0x27, B: 0x23, A: 0xff},
	},
}

// appTheme applies a palette and the configured font size on top of the
// default Fyne theme
type appTheme struct {
	baseFontSize float32
	palette      palette
}

// newAppTheme creates the theme for scheme t with the given base font size
func newAppTheme(t session.Theme, baseFontSize int) *appTheme {
	p, ok := palettes[t]
	if !ok {
		p = palettes[session.ThemeLight]
	}
	if baseFontSize < 10 {
		baseFontSize = 14
	}
	return &appTheme{
		baseFontSize: float32(baseFontSize),
		palette:      p,
	}
}

// Color ignores the variant requested by the OS; the scheme decides it
func (t *appTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus, theme.ColorNameHyperlink:
		return t.palette.primary
	case theme.ColorNameSuccess:
		return t.palette.secondary
	case theme.ColorNameBackground:
		return t.palette.background
	case theme.ColorNameInputBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground, theme.ColorNameHeaderBackground:
		return t.palette.surface
	case theme.ColorNameForeground:
		return t.palette.foreground
	// Read-only result entries stay legible
	case theme.ColorNameDisabled:
		return t.palette.foreground
	}
	return theme.DefaultTheme().Color(name, t.palette.variant)
}

func (t *appTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *appTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *appTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return t.baseFontSize
	case theme.SizeNameHeadingText:
		return t.baseFontSize * 1.5
	case theme.SizeNameSubHeadingText:
		return t.baseFontSize * 1.2
	case theme.SizeNameCaptionText:
		return t.baseFontSize * 0.85
	default:
		return theme.DefaultTheme().Size(name)
	}
}
