package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
)

// viewIcons are the navigation icons, one per view
var viewIcons = map[session.View]fyne.Resource{
	session.ViewWelcome:    theme.HomeIcon(),
	session.ViewChat:       theme.MailComposeIcon(),
	session.ViewAnalysis:   theme.DocumentIcon(),
	session.ViewGeneration: theme.DocumentCreateIcon(),
}

// Sidebar is the navigation panel: views, language, theme, settings and account
type Sidebar struct {
	app        *App
	root       *fyne.Container
	navButtons map[session.View]*widget.Button
	account    *fyne.Container
}

func newSidebar(app *App) *Sidebar {
	return &Sidebar{
		app:        app,
		root:       container.NewStack(),
		navButtons: make(map[session.View]*widget.Button),
	}
}

// Object returns the canvas object placed in the window
func (s *Sidebar) Object() fyne.CanvasObject {
	return s.root
}

// rebuild recreates every widget for the locale and theme of ctx
func (s *Sidebar) rebuild(ctx session.AppContext) {
	title := widget.NewLabelWithStyle(locale.T(ctx.Locale, locale.AppTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.SizeName = theme.SizeNameSubHeadingText

	nav := container.NewVBox()
	for _, v := range session.Views() {
		btn := widget.NewButtonWithIcon(locale.T(ctx.Locale, v.TitleID()), viewIcons[v], func() {
			if err := s.app.session.SetView(v); err != nil {
				s.app.logger.Warn("Failed to switch view: %v", err)
			}
		})
		btn.Alignment = buttonAlign(ctx)
		s.navButtons[v] = btn
		nav.Add(btn)
	}

	s.account = container.NewVBox()
	settingsButton := widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.SettingsTitle), theme.SettingsIcon(), func() {
		s.app.session.CloseSidebar()
		s.app.showSettings()
	})
	settingsButton.Importance = widget.LowImportance
	settingsButton.Alignment = buttonAlign(ctx)

	bottom := container.NewVBox(
		widget.NewSeparator(),
		widget.NewForm(
			widget.NewFormItem(locale.T(ctx.Locale, locale.LanguageLabel), s.languageSelect(ctx)),
			widget.NewFormItem(locale.T(ctx.Locale, locale.ThemeLabel), s.themeSelect(ctx)),
		),
		settingsButton,
		widget.NewSeparator(),
		s.account,
	)

	panel := container.NewBorder(
		container.NewVBox(title, widget.NewSeparator()),
		bottom,
		nil,
		nil,
		container.NewVScroll(nav),
	)
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameHeaderBackground))

	s.root.Objects = []fyne.CanvasObject{bg, container.NewPadded(panel)}
	s.root.Refresh()
}

// update highlights the active view and shows the account state
func (s *Sidebar) update(ctx session.AppContext) {
	for v, btn := range s.navButtons {
		if v == ctx.View {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.LowImportance
		}
		btn.Refresh()
	}

	if s.account == nil {
		return
	}
	if ctx.Authenticated() {
		identity := widget.NewLabelWithStyle(ctx.Identity, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
		identity.Truncation = fyne.TextTruncateEllipsis
		s.account.Objects = []fyne.CanvasObject{
			container.NewBorder(nil, nil, widget.NewIcon(theme.AccountIcon()), nil, identity),
			widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.SignOut), theme.LogoutIcon(), func() {
				if err := s.app.session.Logout(); err != nil {
					s.app.logger.Error("Failed to sign out: %v", err)
					s.app.showError(err.Error())
				}
			}),
		}
	} else {
		signIn := widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.SignIn), theme.LoginIcon(), func() {
			s.app.session.CloseSidebar()
			s.app.showLogin()
		})
		signIn.Importance = widget.HighImportance
		s.account.Objects = []fyne.CanvasObject{signIn}
	}
	s.account.Refresh()
}

// languageSelect lists each locale by its own name
func (s *Sidebar) languageSelect(ctx session.AppContext) *widget.Select {
	locales := locale.All()
	names := make([]string, len(locales))
	for i, l := range locales {
		names[i] = l.DisplayName()
	}

	sel := widget.NewSelect(names, nil)
	sel.SetSelected(ctx.Locale.DisplayName())
	sel.OnChanged = func(name string) {
		for _, l := range locales {
			if l.DisplayName() != name || l == s.app.currentLocale() {
				continue
			}
			if err := s.app.session.SetLocale(l); err != nil {
				s.app.logger.Warn("Failed to switch locale: %v", err)
			}
		}
	}
	return sel
}

func (s *Sidebar) themeSelect(ctx session.AppContext) *widget.Select {
	themes := session.Themes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = locale.T(ctx.Locale, t.LabelID())
	}

	sel := widget.NewSelect(names, nil)
	sel.SetSelected(locale.T(ctx.Locale, ctx.Theme.LabelID()))
	sel.OnChanged = func(name string) {
		current := s.app.session.Context()
		for _, t := range themes {
			if locale.T(current.Locale, t.LabelID()) != name || t == current.Theme {
				continue
			}
			if err := s.app.session.SetTheme(t); err != nil {
				s.app.logger.Warn("Failed to switch theme: %v", err)
			}
		}
	}
	return sel
}

func buttonAlign(ctx session.AppContext) widget.ButtonAlign {
	if ctx.Direction() == locale.RTL {
		return widget.ButtonAlignTrailing
	}
	return widget.ButtonAlignLeading
}
