package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
	"nonprofit-assistant/utils"
)

// AnalysisView is the document-analysis screen
type AnalysisView struct {
	app *App

	document      *fyne.Container
	question      *widget.Entry
	analyzeButton *widget.Button
	progress      *widget.ProgressBarInfinite
	errorLabel    *widget.Label
	result        *widget.Label
	resultCard    *widget.Card

	// shown is the document the chip currently displays
	shown     attachment.Attachment
	shownName string
}

func newAnalysisView(app *App) *AnalysisView {
	v := &AnalysisView{app: app}
	app.workspace.Subscribe(func() {
		fyne.Do(v.refresh)
	})
	return v
}

func (v *AnalysisView) build(ctx session.AppContext) fyne.CanvasObject {
	upload := widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.UploadLabel), theme.UploadIcon(), v.upload)
	scan := widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.ScanLabel), theme.MediaPhotoIcon(), v.scan)
	upload.Importance = widget.MediumImportance
	scan.Importance = widget.MediumImportance
	sources := container.NewCenter(v.app.row(upload, scan))

	v.document = container.NewVBox()
	v.shown, v.shownName = attachment.Attachment{}, ""

	v.question = widget.NewMultiLineEntry()
	v.question.Wrapping = fyne.TextWrapWord
	v.question.SetMinRowsVisible(3)
	v.question.SetPlaceHolder(locale.T(ctx.Locale, locale.AskQuestion))
	v.question.SetText(v.app.workspace.Question())
	v.question.OnChanged = v.app.workspace.SetQuestion

	v.analyzeButton = widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.AnalyzeButton), theme.SearchIcon(), v.analyze)
	v.analyzeButton.Importance = widget.HighImportance

	v.progress = widget.NewProgressBarInfinite()
	v.errorLabel = v.app.label("")
	v.errorLabel.Importance = widget.DangerImportance

	v.result = newSelectableText("", v.app.align())
	v.resultCard = widget.NewCard(locale.T(ctx.Locale, locale.AnalysisResult), "", v.result)

	v.refresh()
	return container.NewVScroll(container.NewPadded(container.NewVBox(
		v.app.heading(locale.T(ctx.Locale, locale.AnalysisTitle)),
		v.app.label(locale.T(ctx.Locale, locale.AnalysisDesc)),
		widget.NewCard("", "", container.NewVBox(sources, v.document)),
		v.question,
		v.analyzeButton,
		v.progress,
		v.errorLabel,
		v.resultCard,
	)))
}

// refresh syncs the widgets with the workspace
func (v *AnalysisView) refresh() {
	if v.document == nil {
		return
	}
	ws := v.app.workspace
	loc := v.app.currentLocale()

	att, _ := ws.Document()
	if name := ws.FileName(loc); att != v.shown || name != v.shownName {
		v.shown, v.shownName = att, name
		v.document.RemoveAll()
		if att.Data != "" {
			v.document.Add(newAttachmentChip(v.app, att, name, nil))
			v.document.Add(v.app.label(name + " - " + locale.T(loc, locale.FileReady)))
		}
	}

	if ws.Loading() {
		v.progress.Show()
	} else {
		v.progress.Hide()
	}
	if ws.CanAnalyze() {
		v.analyzeButton.Enable()
	} else {
		v.analyzeButton.Disable()
	}

	if msg := ws.Error(loc); msg != "" {
		v.errorLabel.SetText(msg)
		v.errorLabel.Show()
	} else {
		v.errorLabel.Hide()
	}

	if result := ws.Result(); result != "" {
		v.result.SetText(result)
		v.resultCard.Show()
	} else {
		v.resultCard.Hide()
	}
}

func (v *AnalysisView) upload() {
	v.app.pickFile(documentExtensions, func(path string) {
		utils.SafeGo(v.app.logger, "loadDocument", func() {
			// failures are shown inline by the workspace
			_ = v.app.workspace.LoadFile(path)
		})
	})
}

func (v *AnalysisView) scan() {
	v.app.openScanner(func(dataURL string) {
		if err := v.app.workspace.AcceptCapture(dataURL); err != nil {
			v.app.logger.Warn("Failed to use capture: %v", err)
		}
	})
}

func (v *AnalysisView) analyze() {
	if !v.app.workspace.CanAnalyze() {
		return
	}
	loc := v.app.currentLocale()
	utils.SafeGo(v.app.logger, "analyzeDocument", func() {
		ctx := v.app.requestContext()
		// failures are shown inline by the workspace
		_ = v.app.workspace.Analyze(ctx, v.app.gateway, loc)
	})
}
