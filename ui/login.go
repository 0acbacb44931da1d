package ui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
)

// showLogin asks for the email that identifies the user's chat history
func (a *App) showLogin() {
	var d dialog.Dialog

	email := widget.NewEntry()
	email.SetPlaceHolder("nom@exemple.ma")
	invalid := a.label(a.t(locale.InvalidEmail))
	invalid.Importance = widget.DangerImportance
	invalid.Hide()

	submit := func() {
		err := a.session.Login(email.Text)
		switch {
		case errors.Is(err, session.ErrInvalidEmail):
			invalid.Show()
			return
		case err != nil:
			// the identity is signed in even if its history could not be read
			a.logger.Error("Sign in: %v", err)
			d.Hide()
			a.showError(err.Error())
			return
		}
		d.Hide()
	}
	email.OnSubmitted = func(string) { submit() }
	email.OnChanged = func(string) { invalid.Hide() }

	signIn := widget.NewButtonWithIcon(a.t(locale.SignIn), theme.LoginIcon(), submit)
	signIn.Importance = widget.HighImportance
	cancel := widget.NewButton(a.t(locale.CloseButton), func() { d.Hide() })

	content := container.NewVBox(
		a.label(a.t(locale.SignInDesc)),
		widget.NewLabelWithStyle(a.t(locale.EmailLabel), a.align(), fyne.TextStyle{Bold: true}),
		email,
		invalid,
		container.NewGridWithColumns(2, session.Mirror(a.session.Context(), []fyne.CanvasObject{cancel, signIn})...),
	)

	d = dialog.NewCustomWithoutButtons(a.t(locale.SignInTitle), content, a.window)
	d.Resize(fyne.NewSize(420, 0))
	d.Show()
	a.window.Canvas().Focus(email)
}
