package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/utils"
)

// File types offered by the pickers
var (
	chatExtensions     = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf", ".txt"}
	documentExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".bmp", ".pdf", ".txt"}
)

// newAttachmentChip shows a pending attachment with a thumbnail or file icon
// and a remove button
func newAttachmentChip(app *App, att attachment.Attachment, name string, onRemove func()) fyne.CanvasObject {
	data, err := att.Bytes()
	if err != nil {
		app.logger.Warn("Failed to decode pending attachment: %v", err)
	}

	var icon fyne.CanvasObject
	if att.IsImage() && len(data) > 0 {
		img := canvas.NewImageFromResource(fyne.NewStaticResource("attachment", data))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(56, 56))
		icon = img
	} else {
		icon = widget.NewIcon(theme.FileIcon())
	}

	if name == "" {
		name = att.MimeType
	}
	info := widget.NewLabel(name + "\n" + utils.FormatFileSize(int64(len(data))))
	info.Alignment = app.align()
	info.Truncation = fyne.TextTruncateEllipsis

	var content fyne.CanvasObject
	if onRemove != nil {
		remove := widget.NewButtonWithIcon("", theme.CancelIcon(), onRemove)
		remove.Importance = widget.DangerImportance
		content = app.row(icon, info, remove)
	} else {
		content = app.row(icon, info)
	}

	bg := canvas.NewRectangle(color.NRGBA{R: 200, G: 200, B: 200, A: 50})
	bg.CornerRadius = 5
	return container.NewStack(bg, container.NewPadded(content))
}

// pickAttachment opens the file dialog and reads the chosen file into an
// attachment off the UI goroutine. onRead runs on the UI goroutine.
func (a *App) pickAttachment(extensions []string, onRead func(attachment.Attachment, string), onFail func(error)) {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.logger.Error("Failed to open file dialog: %v", err)
			onFail(err)
			return
		}
		if reader == nil {
			return
		}

		name := reader.URI().Name()
		a.logger.Info("Selected file: %s", reader.URI().Path())
		utils.SafeGo(a.logger, "pickAttachment", func() {
			defer reader.Close()
			att, err := a.reader.FromReader(name, reader)
			fyne.Do(func() {
				if err != nil {
					a.logger.Warn("Failed to read %s: %v", name, err)
					onFail(err)
					return
				}
				onRead(att, name)
			})
		})
	}, a.window)
	open.SetFilter(storage.NewExtensionFileFilter(extensions))
	open.Show()
}

// attachmentFailed reports a file that could not be read
func (a *App) attachmentFailed(error) {
	a.showError(a.t(locale.FileReadError))
}

// pickFile opens the file dialog and hands the chosen local path to onPicked
func (a *App) pickFile(extensions []string, onPicked func(path string)) {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.logger.Error("Failed to open file dialog: %v", err)
			a.attachmentFailed(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		// Close immediately to release the file handle
		reader.Close()
		a.logger.Info("Selected file: %s", path)
		onPicked(path)
	}, a.window)
	open.SetFilter(storage.NewExtensionFileFilter(extensions))
	open.Show()
}
