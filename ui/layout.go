package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	// compactWidth is the window width below which the sidebar becomes an overlay
	compactWidth  float32 = 768
	sidebarWidth  float32 = 260
	headerPadding float32 = 4
)

// shellLayout places the header, the active view, the backdrop and the
// sidebar. Wide windows dock the sidebar on the leading edge and hide the
// header; compact windows show the header and open the sidebar over the
// view only while open is set. Objects must be given in that order.
type shellLayout struct {
	open bool
	rtl  bool
}

func (l *shellLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) != 4 {
		return
	}
	header, content, backdrop, sidebar := objects[0], objects[1], objects[2], objects[3]
	sw := sidebarWidth
	if sw > size.Width {
		sw = size.Width
	}

	if size.Width >= compactWidth {
		header.Resize(fyne.NewSize(0, 0))
		backdrop.Resize(fyne.NewSize(0, 0))

		sidebar.Resize(fyne.NewSize(sw, size.Height))
		content.Resize(fyne.NewSize(size.Width-sw, size.Height))
		if l.rtl {
			content.Move(fyne.NewPos(0, 0))
			sidebar.Move(fyne.NewPos(size.Width-sw, 0))
		} else {
			sidebar.Move(fyne.NewPos(0, 0))
			content.Move(fyne.NewPos(sw, 0))
		}
		return
	}

	hh := header.MinSize().Height + headerPadding
	header.Move(fyne.NewPos(0, 0))
	header.Resize(fyne.NewSize(size.Width, hh))
	content.Move(fyne.NewPos(0, hh))
	content.Resize(fyne.NewSize(size.Width, size.Height-hh))

	if !l.open {
		backdrop.Resize(fyne.NewSize(0, 0))
		sidebar.Resize(fyne.NewSize(0, 0))
		return
	}
	backdrop.Move(fyne.NewPos(0, 0))
	backdrop.Resize(size)
	sidebar.Resize(fyne.NewSize(sw, size.Height))
	if l.rtl {
		sidebar.Move(fyne.NewPos(size.Width-sw, 0))
	} else {
		sidebar.Move(fyne.NewPos(0, 0))
	}
}

func (l *shellLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) != 4 {
		return fyne.NewSize(0, 0)
	}
	content := objects[1].MinSize()
	return fyne.NewSize(content.Width, content.Height+objects[0].MinSize().Height)
}

// backdrop dims the view behind the open sidebar and closes it on tap
type backdrop struct {
	widget.BaseWidget
	onTapped func()
}

func newBackdrop(onTapped func()) *backdrop {
	b := &backdrop{onTapped: onTapped}
	b.ExtendBaseWidget(b)
	return b
}

func (b *backdrop) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.NRGBA{A: 0x80}))
}

// Tapped closes the overlay
func (b *backdrop) Tapped(_ *fyne.PointEvent) {
	if b.onTapped != nil {
		b.onTapped()
	}
}
