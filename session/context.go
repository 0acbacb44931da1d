package session

import (
	"fmt"
	"strings"

	"nonprofit-assistant/locale"
)

// View is one of the four top-level screens
type View string

const (
	ViewWelcome    View = "welcome"
	ViewChat       View = "chat"
	ViewAnalysis   View = "analysis"
	ViewGeneration View = "generation"
)

// Views returns every view in navigation order
func Views() []View {
	return []View{ViewWelcome, ViewChat, ViewAnalysis, ViewGeneration}
}

// Valid reports whether v is a known view
func (v View) Valid() bool {
	switch v {
	case ViewWelcome, ViewChat, ViewAnalysis, ViewGeneration:
		return true
	}
	return false
}

// TitleID returns the locale message id of the view's title
func (v View) TitleID() string {
	switch v {
	case ViewChat:
		return locale.ViewChat
	case ViewAnalysis:
		return locale.ViewAnalysis
	case ViewGeneration:
		return locale.ViewGeneration
	default:
		return locale.ViewWelcome
	}
}

// Theme is one of the three color schemes
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	ThemeMorocco Theme = "morocco"
)

// Themes returns every theme in display order
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeMorocco}
}

// ParseTheme converts a config or UI value into a Theme
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case ThemeLight, ThemeDark, ThemeMorocco:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// LabelID returns the locale message id of the theme's name
func (t Theme) LabelID() string {
	switch t {
	case ThemeDark:
		return locale.ThemeDark
	case ThemeMorocco:
		return locale.ThemeMorocco
	default:
		return locale.ThemeLight
	}
}

// AppContext is the process-wide presentation and identity state.
// Values handed out are copies; change it through the Controller.
type AppContext struct {
	Identity    string
	Locale      locale.Locale
	Theme       Theme
	View        View
	SidebarOpen bool
}

// DefaultContext is the state at startup: signed out, French, light, welcome
func DefaultContext() AppContext {
	return AppContext{
		Locale: locale.Default,
		Theme:  ThemeLight,
		View:   ViewWelcome,
	}
}

// Authenticated reports whether an identity is signed in
func (c AppContext) Authenticated() bool {
	return c.Identity != ""
}

// Direction is derived from the locale
func (c AppContext) Direction() locale.Direction {
	return c.Locale.Direction()
}

// Mirror orders items for the context's text direction
func Mirror[T any](c AppContext, items []T) []T {
	return locale.Mirror(c.Direction(), items)
}
