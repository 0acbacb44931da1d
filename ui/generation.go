package ui

import (
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/catalog"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
	"nonprofit-assistant/utils"
)

// dateLayout is how date fields are filled from the calendar
const dateLayout = "02/01/2006"

// GenerationView is the document-generation screen
type GenerationView struct {
	app *App

	categorySelect *widget.Select
	categoryIDs    []string
	templateSelect *widget.Select
	templateIDs    []string
	description    *widget.Label
	form           *fyne.Container
	formCard       *widget.Card
	generateButton *widget.Button
	progress       *widget.ProgressBarInfinite
	result         *widget.Label
	copyButton     *widget.Button
	resultCard     *widget.Card

	// formTemplate is the template the form widgets were built for
	formTemplate string
}

func newGenerationView(app *App) *GenerationView {
	v := &GenerationView{app: app}
	app.engine.Subscribe(func() {
		fyne.Do(v.refresh)
	})
	return v
}

func (v *GenerationView) build(ctx session.AppContext) fyne.CanvasObject {
	cat := v.app.engine.Catalog()

	v.categoryIDs = v.categoryIDs[:0]
	names := make([]string, 0, len(cat.Categories))
	for _, c := range cat.Categories {
		v.categoryIDs = append(v.categoryIDs, c.ID)
		names = append(names, c.Name.Get(ctx.Locale))
	}
	v.categorySelect = widget.NewSelect(names, nil)
	v.categorySelect.PlaceHolder = locale.T(ctx.Locale, locale.SelectCategory)
	v.categorySelect.Alignment = v.app.align()

	v.templateSelect = widget.NewSelect(nil, nil)
	v.templateSelect.PlaceHolder = locale.T(ctx.Locale, locale.SelectTemplate)
	v.templateSelect.Alignment = v.app.align()
	v.templateIDs = nil

	v.description = v.app.label("")
	v.description.TextStyle = fyne.TextStyle{Italic: true}

	v.form = container.NewVBox()
	v.formCard = widget.NewCard(locale.T(ctx.Locale, locale.FillDetails), "", v.form)
	v.formTemplate = ""

	v.generateButton = widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.GenerateButton), theme.DocumentCreateIcon(), v.generate)
	v.generateButton.Importance = widget.HighImportance
	v.progress = widget.NewProgressBarInfinite()

	v.result = newSelectableText("", v.app.align())
	v.copyButton = widget.NewButtonWithIcon("", theme.ContentCopyIcon(), v.copy)
	v.copyButton.Importance = widget.LowImportance
	v.resultCard = widget.NewCard(locale.T(ctx.Locale, locale.GeneratedDocument), "",
		container.NewVBox(v.app.row(v.copyButton), v.result))

	v.refresh()
	v.categorySelect.OnChanged = v.onCategory
	v.templateSelect.OnChanged = v.onTemplate

	return container.NewVScroll(container.NewPadded(container.NewVBox(
		v.app.heading(locale.T(ctx.Locale, locale.GenerationTitle)),
		v.app.label(locale.T(ctx.Locale, locale.GenerationDesc)),
		v.categorySelect,
		v.templateSelect,
		v.description,
		v.formCard,
		v.progress,
		v.resultCard,
	)))
}

// refresh syncs the widgets with the engine
func (v *GenerationView) refresh() {
	if v.categorySelect == nil {
		return
	}
	e := v.app.engine
	loc := v.app.currentLocale()

	category := e.SelectedCategory()
	template := e.SelectedTemplate()

	onCategory, onTemplate := v.categorySelect.OnChanged, v.templateSelect.OnChanged
	v.categorySelect.OnChanged, v.templateSelect.OnChanged = nil, nil

	if category == nil {
		v.categorySelect.ClearSelected()
	} else if i := slices.Index(v.categoryIDs, category.ID); i >= 0 {
		v.categorySelect.SetSelected(v.categorySelect.Options[i])
	}

	templates := e.Templates()
	v.templateIDs = v.templateIDs[:0]
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		v.templateIDs = append(v.templateIDs, t.ID)
		names = append(names, t.Name.Get(loc))
	}
	v.templateSelect.SetOptions(names)
	if template == nil {
		v.templateSelect.ClearSelected()
	} else if i := slices.Index(v.templateIDs, template.ID); i >= 0 {
		v.templateSelect.SetSelected(names[i])
	}
	if category == nil {
		v.templateSelect.Disable()
	} else {
		v.templateSelect.Enable()
	}

	v.categorySelect.OnChanged, v.templateSelect.OnChanged = onCategory, onTemplate

	if template == nil {
		v.description.Hide()
		v.formCard.Hide()
		v.formTemplate = ""
	} else {
		v.description.SetText(template.Description.Get(loc))
		v.description.Show()
		if v.formTemplate != template.ID {
			v.buildForm(template, loc)
		}
		v.formCard.Show()
	}

	if e.Loading() {
		v.progress.Show()
	} else {
		v.progress.Hide()
	}
	if e.CanGenerate() {
		v.generateButton.Enable()
	} else {
		v.generateButton.Disable()
	}

	if result := e.Result(); result != "" {
		v.result.SetText(result)
		if e.Copied() {
			v.copyButton.SetText(locale.T(loc, locale.Copied))
			v.copyButton.SetIcon(theme.ConfirmIcon())
		} else {
			v.copyButton.SetText(locale.T(loc, locale.CopyButton))
			v.copyButton.SetIcon(theme.ContentCopyIcon())
		}
		v.resultCard.Show()
	} else {
		v.resultCard.Hide()
	}
}

// buildForm creates one input per field, prefilled from the engine
func (v *GenerationView) buildForm(t *catalog.Template, loc locale.Locale) {
	v.formTemplate = t.ID
	values := v.app.engine.Values()

	v.form.RemoveAll()
	for _, f := range t.Fields {
		id := f.ID
		label := widget.NewLabelWithStyle(f.Label.Get(loc), v.app.align(), fyne.TextStyle{Bold: true})

		var entry *widget.Entry
		if f.Kind == catalog.KindTextarea {
			entry = widget.NewMultiLineEntry()
			entry.Wrapping = fyne.TextWrapWord
			entry.SetMinRowsVisible(4)
		} else {
			entry = widget.NewEntry()
		}
		entry.SetText(values[id])
		entry.OnChanged = func(value string) {
			if err := v.app.engine.SetField(id, value); err != nil {
				v.app.logger.Warn("Failed to set field %s: %v", id, err)
			}
		}

		var input fyne.CanvasObject = entry
		if f.Kind == catalog.KindDate {
			entry.SetPlaceHolder("JJ/MM/AAAA")
			pick := widget.NewButtonWithIcon("", theme.CalendarIcon(), func() {
				v.showCalendar(entry)
			})
			objs := session.Mirror(v.app.session.Context(), []fyne.CanvasObject{nil, pick})
			input = container.NewBorder(nil, nil, objs[0], objs[1], entry)
		}
		v.form.Add(container.NewVBox(label, input))
	}
	v.form.Add(v.generateButton)
}

// showCalendar fills entry with the date picked in a popup calendar
func (v *GenerationView) showCalendar(entry *widget.Entry) {
	var popup *widget.PopUp
	start := time.Now()
	if t, err := time.Parse(dateLayout, entry.Text); err == nil {
		start = t
	}
	calendar := widget.NewCalendar(start, func(t time.Time) {
		entry.SetText(t.Format(dateLayout))
		popup.Hide()
	})
	popup = widget.NewModalPopUp(calendar, v.app.window.Canvas())
	popup.Show()
}

func (v *GenerationView) onCategory(name string) {
	i := slices.Index(v.categorySelect.Options, name)
	if i < 0 {
		return
	}
	id := v.categoryIDs[i]
	if c := v.app.engine.SelectedCategory(); c != nil && c.ID == id {
		return
	}
	if err := v.app.engine.SelectCategory(id); err != nil {
		v.app.logger.Warn("Failed to select category: %v", err)
	}
}

func (v *GenerationView) onTemplate(name string) {
	i := slices.Index(v.templateSelect.Options, name)
	if i < 0 || i >= len(v.templateIDs) {
		return
	}
	id := v.templateIDs[i]
	if t := v.app.engine.SelectedTemplate(); t != nil && t.ID == id {
		return
	}
	if err := v.app.engine.SelectTemplate(id); err != nil {
		v.app.logger.Warn("Failed to select template: %v", err)
	}
}

func (v *GenerationView) generate() {
	if !v.app.engine.CanGenerate() {
		return
	}
	loc := v.app.currentLocale()
	utils.SafeGo(v.app.logger, "generateDocument", func() {
		// a failure only ends the loading state; the engine logs it
		_ = v.app.engine.Generate(v.app.requestContext(), v.app.gateway, loc)
	})
}

func (v *GenerationView) copy() {
	if err := v.app.engine.Copy(v.app.fyneApp.Clipboard()); err != nil {
		v.app.logger.Warn("Nothing to copy: %v", err)
	}
}
