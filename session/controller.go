// Package session owns the application context: active view, signed-in
// identity, locale and theme, plus the capture hand-off between views and
// the scanner.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"nonprofit-assistant/db"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/transcript"
	"nonprofit-assistant/utils"
)

// KeyCurrentUser is the storage key of the signed-in identity
const KeyCurrentUser = "currentUser"

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrUnknownView  = errors.New("unknown view")
	ErrUnknownTheme = errors.New("unknown theme")
)

// Controller coordinates the application context with the chat transcript
type Controller struct {
	mu       sync.Mutex
	kv       db.Store
	chat     *transcript.Store
	logger   *utils.Logger
	validate *validator.Validate

	ctx       AppContext
	capture   CaptureSlot
	listeners []func(AppContext)
}

// New creates a controller in DefaultContext. chat may be nil when no
// transcript needs to follow the identity.
func New(kv db.Store, chat *transcript.Store, logger *utils.Logger) *Controller {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Controller{
		kv:       kv,
		chat:     chat,
		logger:   logger,
		validate: validator.New(),
		ctx:      DefaultContext(),
	}
}

// Context returns a copy of the current application context
func (c *Controller) Context() AppContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

// Subscribe registers fn to be called with the new context after every change
func (c *Controller) Subscribe(fn func(AppContext)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// update applies fn to the context under the lock, then notifies
func (c *Controller) update(fn func(*AppContext)) {
	c.mu.Lock()
	fn(&c.ctx)
	snapshot := c.ctx
	listeners := append([]func(AppContext){}, c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Restore signs back in the identity stored by a previous run.
// A missing key leaves the session signed out.
func (c *Controller) Restore() error {
	identity, err := c.kv.Get(KeyCurrentUser)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read current user: %w", err)
	}
	if identity == "" {
		return nil
	}

	c.logger.Info("Restoring session for %s", identity)
	return c.signIn(identity)
}

// Login validates email, persists it as the current identity and loads its transcript
func (c *Controller) Login(email string) error {
	email = strings.TrimSpace(email)
	if err := c.validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	if err := c.kv.Set(KeyCurrentUser, email); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}
	c.logger.Info("Signed in as %s", email)
	return c.signIn(email)
}

func (c *Controller) signIn(identity string) error {
	var loadErr error
	if c.chat != nil {
		loadErr = c.chat.SetIdentity(identity)
	}
	c.update(func(ctx *AppContext) {
		ctx.Identity = identity
	})
	return loadErr
}

// Logout forgets the identity and returns to the welcome view. The
// identity's transcript stays in storage.
func (c *Controller) Logout() error {
	if err := c.kv.Delete(KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	if c.chat != nil {
		if err := c.chat.SetIdentity(""); err != nil {
			c.logger.Warn("Failed to clear transcript: %v", err)
		}
	}
	c.capture.Cancel()

	c.update(func(ctx *AppContext) {
		ctx.Identity = ""
		ctx.View = ViewWelcome
		ctx.SidebarOpen = false
	})
	c.logger.Info("Signed out")
	return nil
}

// SetView replaces the active view and closes the sidebar overlay
func (c *Controller) SetView(v View) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	c.update(func(ctx *AppContext) {
		ctx.View = v
		ctx.SidebarOpen = false
	})
	return nil
}

// ToggleSidebar opens or closes the navigation overlay
func (c *Controller) ToggleSidebar() {
	c.update(func(ctx *AppContext) {
		ctx.SidebarOpen = !ctx.SidebarOpen
	})
}

// CloseSidebar closes the navigation overlay
func (c *Controller) CloseSidebar() {
	c.update(func(ctx *AppContext) {
		ctx.SidebarOpen = false
	})
}

// SetLocale switches the interface language, and with it the text direction
func (c *Controller) SetLocale(l locale.Locale) error {
	if !l.Valid() {
		return fmt.Errorf("unsupported locale: %q", l)
	}
	c.update(func(ctx *AppContext) {
		ctx.Locale = l
	})
	return nil
}

// SetTheme switches the color scheme
func (c *Controller) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	c.update(func(ctx *AppContext) {
		ctx.Theme = t
	})
	return nil
}

// Direction returns the text direction of the active locale
func (c *Controller) Direction() locale.Direction {
	return c.Context().Direction()
}

// Title returns the localized title of the active view
func (c *Controller) Title() string {
	ctx := c.Context()
	return locale.T(ctx.Locale, ctx.View.TitleID())
}

// OpenCapture arms the capture hand-off. A request that was still waiting is dropped.
func (c *Controller) OpenCapture(resume func(dataURL string)) {
	c.capture.Arm(resume)
}

// FulfillCapture delivers a confirmed image to the waiting request, if any
func (c *Controller) FulfillCapture(dataURL string) bool {
	return c.capture.Fulfill(dataURL)
}

// CancelCapture drops the waiting request
func (c *Controller) CancelCapture() {
	c.capture.Cancel()
}

// CaptureArmed reports whether a capture request is waiting
func (c *Controller) CaptureArmed() bool {
	return c.capture.Armed()
}
