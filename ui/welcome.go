package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
)

// WelcomeView is the landing screen
type WelcomeView struct {
	app *App
}

func newWelcomeView(app *App) *WelcomeView {
	return &WelcomeView{app: app}
}

func (v *WelcomeView) build(ctx session.AppContext) fyne.CanvasObject {
	icon := widget.NewIcon(theme.DocumentIcon())

	title := widget.NewLabelWithStyle(locale.T(ctx.Locale, locale.WelcomeTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.SizeName = theme.SizeNameHeadingText
	title.Wrapping = fyne.TextWrapWord

	desc := widget.NewLabelWithStyle(locale.T(ctx.Locale, locale.WelcomeDesc), fyne.TextAlignCenter, fyne.TextStyle{})
	desc.Wrapping = fyne.TextWrapWord

	knowledge := widget.NewCard(
		locale.T(ctx.Locale, locale.WelcomeKnowledge),
		"",
		v.app.label(locale.T(ctx.Locale, locale.WelcomeKnowledgeDesc)),
	)

	shortcuts := container.NewGridWithColumns(3)
	for _, target := range session.Mirror(ctx, session.Views()[1:]) {
		btn := widget.NewButtonWithIcon(locale.T(ctx.Locale, target.TitleID()), viewIcons[target], func() {
			if err := v.app.session.SetView(target); err != nil {
				v.app.logger.Warn("Failed to switch view: %v", err)
			}
		})
		shortcuts.Add(btn)
	}

	return container.NewVScroll(container.NewPadded(container.NewVBox(
		container.NewCenter(icon),
		title,
		desc,
		shortcuts,
		knowledge,
	)))
}
