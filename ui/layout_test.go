package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/stretchr/testify/assert"
)

func shellObjects() []fyne.CanvasObject {
	header := canvas.NewRectangle(nil)
	header.SetMinSize(fyne.NewSize(10, 36))
	return []fyne.CanvasObject{header, canvas.NewRectangle(nil), canvas.NewRectangle(nil), canvas.NewRectangle(nil)}
}

func TestShellLayout_WideDocksSidebar(t *testing.T) {
	objs := shellObjects()
	header, content, backdrop, sidebar := objs[0], objs[1], objs[2], objs[3]

	(&shellLayout{open: false}).Layout(objs, fyne.NewSize(1200, 800))
	assert.Equal(t, fyne.NewSize(0, 0), header.Size())
	assert.Equal(t, fyne.NewSize(0, 0), backdrop.Size())
	assert.Equal(t, fyne.NewPos(0, 0), sidebar.Position())
	assert.Equal(t, fyne.NewSize(sidebarWidth, 800), sidebar.Size())
	assert.Equal(t, fyne.NewPos(sidebarWidth, 0), content.Position())

	(&shellLayout{rtl: true}).Layout(objs, fyne.NewSize(1200, 800))
	assert.Equal(t, fyne.NewPos(1200-sidebarWidth, 0), sidebar.Position())
	assert.Equal(t, fyne.NewPos(0, 0), content.Position())
}

func TestShellLayout_CompactOverlay(t *testing.T) {
	objs := shellObjects()
	header, content, backdrop, sidebar := objs[0], objs[1], objs[2], objs[3]

	l := &shellLayout{}
	l.Layout(objs, fyne.NewSize(400, 700))
	assert.Equal(t, float32(400), header.Size().Width)
	assert.Equal(t, float32(400), content.Size().Width)
	assert.Equal(t, fyne.NewSize(0, 0), sidebar.Size())
	assert.Equal(t, fyne.NewSize(0, 0), backdrop.Size())

	l.open = true
	l.Layout(objs, fyne.NewSize(400, 700))
	assert.Equal(t, fyne.NewSize(400, 700), backdrop.Size())
	assert.Equal(t, fyne.NewSize(sidebarWidth, 700), sidebar.Size())

	l.rtl = true
	l.Layout(objs, fyne.NewSize(400, 700))
	assert.Equal(t, fyne.NewPos(400-sidebarWidth, 0), sidebar.Position())
}
