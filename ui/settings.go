package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
)

// providers are the AI backends offered in settings
var providers = []string{"gemini", "openai", "claude"}

// defaultModels are suggested when the model field is left empty
var defaultModels = map[string]string{
	"gemini": "gemini-2.5-flash",
	"openai": "gpt-4o-mini",
	"claude": "claude-sonnet-4-5",
}

// SettingsView edits the AI provider and the text size
type SettingsView struct {
	app *App

	providerSelect *widget.Select
	apiKeyEntry    *widget.Entry
	baseURLEntry   *widget.Entry
	modelEntry     *widget.Entry
	fontSizeLabel  *widget.Label
	fontSizeSlider *widget.Slider
}

// showSettings opens the settings dialog
func (a *App) showSettings() {
	sv := &SettingsView{app: a}
	var d dialog.Dialog
	d = dialog.NewCustomConfirm(a.t(locale.SettingsTitle), a.t(locale.SaveButton), a.t(locale.CloseButton),
		sv.Build(), func(save bool) {
			if save {
				sv.save()
			}
		}, a.window)
	d.Resize(fyne.NewSize(520, 0))
	d.Show()
}

// Build builds the settings form from the current config
func (sv *SettingsView) Build() fyne.CanvasObject {
	cfg := sv.app.config

	sv.apiKeyEntry = widget.NewPasswordEntry()
	sv.apiKeyEntry.SetText(cfg.AI.APIKey)

	sv.baseURLEntry = widget.NewEntry()
	sv.baseURLEntry.SetPlaceHolder("https://api.openai.com/v1")
	sv.baseURLEntry.SetText(cfg.AI.BaseURL)

	sv.modelEntry = widget.NewEntry()
	sv.modelEntry.SetText(cfg.AI.Model)

	current := strings.ToLower(cfg.AI.Provider)
	if current == "anthropic" {
		current = "claude"
	}
	sv.providerSelect = widget.NewSelect(providers, nil)
	sv.providerSelect.SetSelected(current)
	sv.modelEntry.SetPlaceHolder(defaultModels[current])
	sv.providerSelect.OnChanged = func(p string) {
		// a model name only makes sense for the provider it was written for
		if sv.modelEntry.Text == defaultModels[current] {
			sv.modelEntry.SetText("")
		}
		sv.modelEntry.SetPlaceHolder(defaultModels[p])
		current = p
	}

	sv.fontSizeLabel = widget.NewLabel(fmt.Sprintf("%d", cfg.UI.FontSize))
	sv.fontSizeSlider = widget.NewSlider(10, 24)
	sv.fontSizeSlider.Step = 1
	sv.fontSizeSlider.Value = float64(cfg.UI.FontSize)
	sv.fontSizeSlider.OnChanged = func(value float64) {
		sv.fontSizeLabel.SetText(fmt.Sprintf("%d", int(value)))
	}

	return widget.NewForm(
		widget.NewFormItem(sv.app.t(locale.ProviderLabel), sv.providerSelect),
		widget.NewFormItem(sv.app.t(locale.APIKeyLabel), sv.apiKeyEntry),
		widget.NewFormItem("Base URL", sv.baseURLEntry),
		widget.NewFormItem(sv.app.t(locale.ModelLabel), sv.modelEntry),
		widget.NewFormItem(sv.app.t(locale.FontSizeLabel), container.NewBorder(nil, nil, nil, sv.fontSizeLabel, sv.fontSizeSlider)),
	)
}

// save applies the form: the gateway is rebuilt, the theme re-applied with
// the new text size, and the config written
func (sv *SettingsView) save() {
	a := sv.app
	ai := a.config.AI
	ai.Provider = sv.providerSelect.Selected
	ai.APIKey = strings.TrimSpace(sv.apiKeyEntry.Text)
	ai.BaseURL = strings.TrimSpace(sv.baseURLEntry.Text)
	ai.Model = strings.TrimSpace(sv.modelEntry.Text)

	gateway, err := llm.New(context.Background(), llm.ConfigFrom(ai))
	if err != nil {
		a.logger.Error("Failed to initialize %s provider: %v", ai.Provider, err)
		a.showError(err.Error())
		return
	}
	a.gateway.Set(gateway)
	a.logger.Info("%s provider initialized successfully", ai.Provider)

	a.config.AI = ai
	a.config.UI.FontSize = int(sv.fontSizeSlider.Value)
	a.applyTheme(a.session.Context().Theme)
	a.saveConfig()
	a.showInfo(a.t(locale.SettingsSaved))
}
