package ui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/utils"
)

// previewInterval paces the live camera preview
const previewInterval = 100 * time.Millisecond

// scannerDialog is the capture surface around one attachment.Scanner
type scannerDialog struct {
	app     *App
	scanner *attachment.Scanner
	dialog  dialog.Dialog
	cancel  context.CancelFunc

	preview       *canvas.Image
	status        *widget.Label
	captureButton *widget.Button
	retakeButton  *widget.Button
	useButton     *widget.Button
}

// openScanner arms the capture hand-off with resume and shows the scanner.
// resume runs once with the confirmed image; closing without confirming drops it.
func (a *App) openScanner(resume func(dataURL string)) {
	a.session.OpenCapture(resume)
	d := newScannerDialog(a)
	a.trackScanner(d.scanner)
	d.show()
}

func newScannerDialog(a *App) *scannerDialog {
	d := &scannerDialog{app: a}
	opts := attachment.ScanOptions{
		MaxEdge: a.config.Scanner.MaxEdge,
		Quality: a.config.Scanner.Quality,
	}
	d.scanner = attachment.NewScanner(a.camera, opts,
		func(dataURL string) {
			if !a.session.FulfillCapture(dataURL) {
				a.logger.Warn("Captured image confirmed with no request waiting")
			}
		},
		func(err error) {
			fyne.Do(func() { d.closed(err) })
		})
	d.scanner.Subscribe(func(st attachment.State) {
		fyne.Do(func() { d.update(st) })
	})
	return d
}

func (d *scannerDialog) show() {
	a := d.app
	d.preview = canvas.NewImageFromImage(nil)
	d.preview.FillMode = canvas.ImageFillContain
	d.preview.SetMinSize(fyne.NewSize(480, 360))
	d.status = widget.NewLabelWithStyle(a.t(locale.Loading), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	d.captureButton = widget.NewButtonWithIcon(a.t(locale.CaptureButton), theme.MediaPhotoIcon(), d.capture)
	d.captureButton.Importance = widget.HighImportance
	d.captureButton.Disable()
	d.retakeButton = widget.NewButtonWithIcon(a.t(locale.RetakeButton), theme.ViewRefreshIcon(), d.retake)
	d.retakeButton.Hide()
	d.useButton = widget.NewButtonWithIcon(a.t(locale.UseImageButton), theme.ConfirmIcon(), d.confirm)
	d.useButton.Importance = widget.HighImportance
	d.useButton.Hide()
	closeButton := widget.NewButtonWithIcon(a.t(locale.CloseButton), theme.CancelIcon(), d.scanner.Close)

	content := container.NewBorder(
		nil,
		container.NewCenter(a.row(closeButton, d.retakeButton, d.captureButton, d.useButton)),
		nil,
		nil,
		container.NewStack(d.preview, container.NewCenter(d.status)),
	)
	d.dialog = dialog.NewCustomWithoutButtons(a.t(locale.ScanLabel), content, a.window)
	d.dialog.Show()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	utils.SafeGo(a.logger, "scannerStart", func() {
		if err := d.scanner.Start(ctx); err != nil {
			a.logger.Warn("Camera unavailable: %v", err)
			return
		}
		d.streamPreview(ctx)
	})
}

// streamPreview pushes live frames to the preview until ctx ends or the
// scanner leaves the streaming state for good
func (d *scannerDialog) streamPreview(ctx context.Context) {
	ticker := time.NewTicker(previewInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		frame, err := d.scanner.Preview()
		if err != nil {
			continue
		}
		fyne.Do(func() {
			d.preview.Resource = nil
			d.preview.Image = frame
			d.preview.Refresh()
		})
	}
}

func (d *scannerDialog) update(st attachment.State) {
	switch st {
	case attachment.StateStreaming:
		d.status.Hide()
		d.captureButton.Enable()
		d.captureButton.Show()
		d.retakeButton.Hide()
		d.useButton.Hide()
	case attachment.StateCaptured:
		att, err := attachment.ParseDataURL(d.scanner.Still())
		if err == nil {
			if data, err := att.Bytes(); err == nil {
				d.preview.Image = nil
				d.preview.Resource = fyne.NewStaticResource("scan.jpg", data)
				d.preview.Refresh()
			}
		}
		d.captureButton.Hide()
		d.retakeButton.Show()
		d.useButton.Show()
	}
}

func (d *scannerDialog) capture() {
	if _, err := d.scanner.Capture(); err != nil {
		d.app.logger.Warn("Capture failed: %v", err)
	}
}

func (d *scannerDialog) retake() {
	if err := d.scanner.Retake(); err != nil {
		d.app.logger.Warn("Retake failed: %v", err)
	}
}

func (d *scannerDialog) confirm() {
	if err := d.scanner.Confirm(); err != nil {
		d.app.logger.Warn("Confirm failed: %v", err)
	}
}

// closed tears the surface down; err is the acquisition failure, if any
func (d *scannerDialog) closed(err error) {
	d.app.untrackScanner(d.scanner)
	if d.cancel != nil {
		d.cancel()
	}
	d.app.session.CancelCapture()
	if d.dialog != nil {
		d.dialog.Hide()
	}
	if err != nil {
		d.app.showError(d.app.t(locale.CameraError))
	}
}
