package ui

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/analysis"
	"nonprofit-assistant/attachment"
	"nonprofit-assistant/catalog"
	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
	"nonprofit-assistant/transcript"
	"nonprofit-assistant/utils"
)

// Services are the components the window renders and drives
type Services struct {
	Gateway   *llm.Switch
	Session   *session.Controller
	Chat      *transcript.Store
	Engine    *catalog.Engine
	Workspace *analysis.Workspace
	Reader    *attachment.FileReader
	Camera    attachment.Camera
}

// view is one of the four screens. build runs whenever the screen is shown
// or the locale changes, and must read everything it displays from the
// components so a rebuild loses nothing.
type view interface {
	build(ctx session.AppContext) fyne.CanvasObject
}

// App represents the main application
type App struct {
	fyneApp    fyne.App
	window     fyne.Window
	config     *utils.Config
	configPath string
	logger     *utils.Logger

	gateway   *llm.Switch
	session   *session.Controller
	chat      *transcript.Store
	engine    *catalog.Engine
	workspace *analysis.Workspace
	reader    *attachment.FileReader
	camera    attachment.Camera

	// UI components
	shell   *shellLayout
	root    *fyne.Container
	header  *widget.Label
	content *fyne.Container
	sidebar *Sidebar
	views   map[session.View]view

	rendered session.AppContext
	started  bool

	// scanner is the capture session on screen, if any
	scannerMu sync.Mutex
	scanner   *attachment.Scanner
}

// NewApp creates a new application instance
func NewApp(config *utils.Config, configPath string, svc Services, logger *utils.Logger) *App {
	fyneApp := app.NewWithID("ma.nonprofit.assistant")
	window := fyneApp.NewWindow(locale.T(locale.Default, locale.AppTitle))

	window.Resize(fyne.NewSize(
		float32(config.UI.WindowWidth),
		float32(config.UI.WindowHeight),
	))

	a := &App{
		fyneApp:    fyneApp,
		window:     window,
		config:     config,
		configPath: configPath,
		logger:     logger,
		gateway:    svc.Gateway,
		session:    svc.Session,
		chat:       svc.Chat,
		engine:     svc.Engine,
		workspace:  svc.Workspace,
		reader:     svc.Reader,
		camera:     svc.Camera,
	}
	if a.reader == nil {
		a.reader = attachment.NewFileReader(0)
	}
	if a.camera == nil {
		a.camera = attachment.UnavailableCamera{}
	}

	window.SetOnClosed(func() {
		a.closeScanner()
		size := window.Canvas().Size()
		a.config.UI.WindowWidth = int(size.Width)
		a.config.UI.WindowHeight = int(size.Height)
		a.saveConfig()
	})

	a.views = map[session.View]view{
		session.ViewWelcome:    newWelcomeView(a),
		session.ViewChat:       newChatView(a),
		session.ViewAnalysis:   newAnalysisView(a),
		session.ViewGeneration: newGenerationView(a),
	}

	a.buildUI()
	a.session.Subscribe(func(ctx session.AppContext) {
		fyne.Do(func() { a.render(ctx) })
	})
	a.render(a.session.Context())
	a.setupKeyboardShortcuts()

	return a
}

// buildUI assembles the shell: header for compact windows, the active view,
// and the sidebar
func (a *App) buildUI() {
	a.sidebar = newSidebar(a)

	a.header = widget.NewLabel("")
	a.header.TextStyle = fyne.TextStyle{Bold: true}
	a.header.Alignment = fyne.TextAlignCenter
	menuButton := widget.NewButtonWithIcon("", theme.MenuIcon(), func() {
		a.session.ToggleSidebar()
	})
	menuButton.Importance = widget.LowImportance
	header := container.NewBorder(nil, widget.NewSeparator(), menuButton, nil, a.header)

	a.content = container.NewStack()
	a.shell = &shellLayout{}
	a.root = container.New(a.shell,
		header,
		a.content,
		newBackdrop(a.session.CloseSidebar),
		a.sidebar.Object(),
	)
	a.window.SetContent(a.root)
}

// render brings the window in line with ctx. It runs on the UI goroutine.
func (a *App) render(ctx session.AppContext) {
	prev := a.rendered
	first := !a.started
	a.started = true
	a.rendered = ctx

	themeChanged := first || prev.Theme != ctx.Theme
	localeChanged := first || prev.Locale != ctx.Locale

	if themeChanged {
		a.applyTheme(ctx.Theme)
	}
	if localeChanged {
		a.window.SetTitle(locale.T(ctx.Locale, locale.AppTitle))
		a.setupSystemTray(ctx.Locale)
	}
	if themeChanged || localeChanged {
		a.sidebar.rebuild(ctx)
	}
	if localeChanged || prev.View != ctx.View || prev.Identity != ctx.Identity {
		a.content.Objects = []fyne.CanvasObject{a.views[ctx.View].build(ctx)}
		a.content.Refresh()
	}
	a.sidebar.update(ctx)
	a.header.SetText(locale.T(ctx.Locale, ctx.View.TitleID()))

	a.shell.open = ctx.SidebarOpen
	a.shell.rtl = ctx.Direction() == locale.RTL
	a.root.Refresh()

	if !first && (prev.Theme != ctx.Theme || prev.Locale != ctx.Locale) {
		a.config.UI.Theme = string(ctx.Theme)
		a.config.UI.Locale = string(ctx.Locale)
		a.saveConfig()
	}
}

// applyTheme installs the palette for t with the configured font size
func (a *App) applyTheme(t session.Theme) {
	a.fyneApp.Settings().SetTheme(newAppTheme(t, a.config.UI.FontSize))
	a.logger.Info("Applied %s theme with font size %d", t, a.config.UI.FontSize)
}

func (a *App) saveConfig() {
	if a.configPath == "" {
		return
	}
	if err := utils.SaveConfig(a.configPath, a.config); err != nil {
		a.logger.Error("Failed to save config: %v", err)
	}
}

// setupKeyboardShortcuts binds Ctrl+1..4 to the four views
func (a *App) setupKeyboardShortcuts() {
	keys := []fyne.KeyName{fyne.Key1, fyne.Key2, fyne.Key3, fyne.Key4}
	for i, v := range session.Views() {
		a.window.Canvas().AddShortcut(&desktop.CustomShortcut{
			KeyName:  keys[i],
			Modifier: fyne.KeyModifierShortcutDefault,
		}, func(fyne.Shortcut) {
			if err := a.session.SetView(v); err != nil {
				a.logger.Warn("Failed to switch view: %v", err)
			}
		})
	}
}

// setupSystemTray installs a localized tray menu where the driver supports one
func (a *App) setupSystemTray(loc locale.Locale) {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		return
	}
	items := []*fyne.MenuItem{
		fyne.NewMenuItem(locale.T(loc, locale.ShowWindow), func() {
			a.window.Show()
		}),
		fyne.NewMenuItemSeparator(),
	}
	for _, v := range session.Views() {
		items = append(items, fyne.NewMenuItem(locale.T(loc, v.TitleID()), func() {
			a.window.Show()
			if err := a.session.SetView(v); err != nil {
				a.logger.Warn("Failed to switch view: %v", err)
			}
		}))
	}
	desk.SetSystemTrayMenu(fyne.NewMenu(locale.T(loc, locale.AppTitle), items...))
}

// currentLocale returns the active locale
func (a *App) currentLocale() locale.Locale {
	return a.session.Context().Locale
}

// t returns the localized text for id in the current locale
func (a *App) t(id string) string {
	return locale.T(a.currentLocale(), id)
}

// align returns the text alignment of the current direction
func (a *App) align() fyne.TextAlign {
	if a.session.Direction() == locale.RTL {
		return fyne.TextAlignTrailing
	}
	return fyne.TextAlignLeading
}

// row lays objects out horizontally in reading order
func (a *App) row(objects ...fyne.CanvasObject) *fyne.Container {
	return container.NewHBox(session.Mirror(a.session.Context(), objects)...)
}

// label creates a wrapping label aligned for the current direction
func (a *App) label(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.Wrapping = fyne.TextWrapWord
	l.Alignment = a.align()
	return l
}

// heading creates a bold title label aligned for the current direction
func (a *App) heading(text string) *widget.Label {
	l := widget.NewLabelWithStyle(text, a.align(), fyne.TextStyle{Bold: true})
	l.SizeName = theme.SizeNameHeadingText
	l.Wrapping = fyne.TextWrapWord
	return l
}

// showError shows an error dialog
func (a *App) showError(message string) {
	var popup *widget.PopUp
	popup = widget.NewModalPopUp(
		container.NewVBox(
			widget.NewLabelWithStyle(a.t(locale.ErrorTitle), a.align(), fyne.TextStyle{Bold: true}),
			a.label(message),
			widget.NewButton(a.t(locale.CloseButton), func() {
				popup.Hide()
			}),
		),
		a.window.Canvas(),
	)
	popup.Show()
}

// showInfo shows an info dialog
func (a *App) showInfo(message string) {
	var popup *widget.PopUp
	popup = widget.NewModalPopUp(
		container.NewVBox(
			a.label(message),
			widget.NewButton(a.t(locale.CloseButton), func() {
				popup.Hide()
			}),
		),
		a.window.Canvas(),
	)
	popup.Show()
}

// Run starts the application
func (a *App) Run() {
	a.window.ShowAndRun()
}

// requestContext is the context of gateway calls. It carries no deadline:
// a request runs until the service answers or fails on its own.
func (a *App) requestContext() context.Context {
	return context.Background()
}

// trackScanner records s as the capture session on screen
func (a *App) trackScanner(s *attachment.Scanner) {
	a.scannerMu.Lock()
	defer a.scannerMu.Unlock()
	a.scanner = s
}

// untrackScanner forgets s once its surface is gone
func (a *App) untrackScanner(s *attachment.Scanner) {
	a.scannerMu.Lock()
	defer a.scannerMu.Unlock()
	if a.scanner == s {
		a.scanner = nil
	}
}

// closeScanner releases the camera of the capture session on screen
func (a *App) closeScanner() {
	a.scannerMu.Lock()
	s := a.scanner
	a.scanner = nil
	a.scannerMu.Unlock()
	if s != nil {
		s.Close()
	}
}

// Cleanup releases the camera and stops pending timers before exit
func (a *App) Cleanup() {
	a.closeScanner()
	a.engine.Close()
	a.session.CancelCapture()
}
