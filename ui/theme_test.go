package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"

	"nonprofit-assistant/session"
)

func TestAppTheme_PalettePerScheme(t *testing.T) {
	for _, scheme := range session.Themes() {
		th := newAppTheme(scheme, 14)
		p := palettes[scheme]
		assert.Equal(t, p.primary, th.Color(theme.ColorNamePrimary, theme.VariantLight), scheme)
		assert.Equal(t, p.background, th.Color(theme.ColorNameBackground, theme.VariantDark), scheme)
		assert.Equal(t, p.foreground, th.Color(theme.ColorNameDisabled, theme.VariantLight), scheme)
	}

	assert.NotEqual(t,
		newAppTheme(session.ThemeLight, 14).Color(theme.ColorNamePrimary, theme.VariantLight),
		newAppTheme(session.ThemeMorocco, 14).Color(theme.ColorNamePrimary, theme.VariantLight))
}

func TestAppTheme_UnknownSchemeFallsBackToLight(t *testing.T) {
	th := newAppTheme(session.Theme("neon"), 14)
	assert.Equal(t, palettes[session.ThemeLight].primary, th.Color(theme.ColorNamePrimary, theme.VariantDark))
}

func TestAppTheme_FontSizes(t *testing.T) {
	th := newAppTheme(session.ThemeDark, 20)
	assert.Equal(t, float32(20), th.Size(theme.SizeNameText))
	assert.Equal(t, float32(30), th.Size(theme.SizeNameHeadingText))
	assert.InDelta(t, 17, th.Size(theme.SizeNameCaptionText), 0.001)

	assert.Equal(t, float32(14), newAppTheme(session.ThemeDark, 0).Size(theme.SizeNameText))
}
