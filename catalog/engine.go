package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nonprofit-assistant/locale"
	"nonprofit-assistant/utils"
)

// CopyConfirmation is how long Copied stays true after a copy
const CopyConfirmation = 2 * time.Second

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrUnknownField    = errors.New("unknown field")
	ErrNoCategory      = errors.New("no category selected")
	ErrNoTemplate      = errors.New("no template selected")
	ErrGenerating      = errors.New("generation already in progress")
	ErrNothingToCopy   = errors.New("no generated document to copy")
)

// Generator is the part of the gateway the engine needs
type Generator interface {
	GenerateDocument(ctx context.Context, templateName string, fields map[string]string, loc locale.Locale) (string, error)
}

// Clipboard receives copied documents; fyne.Clipboard satisfies it
type Clipboard interface {
	SetContent(content string)
}

// Engine is the selection cascade and form state over a catalog
type Engine struct {
	mu      sync.Mutex
	catalog *Catalog
	logger  *utils.Logger

	category *Category
	template *Template
	form     map[string]string
	result   string
	loading  bool
	// bumped whenever the selection changes so late results are dropped
	generation uint64

	copied     bool
	copyToken  uint64
	copyTimer  *time.Timer
	copyWindow time.Duration

	listeners []func()
}

// NewEngine creates an engine with nothing selected
func NewEngine(c *Catalog, logger *utils.Logger) *Engine {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Engine{
		catalog:    c,
		logger:     logger,
		form:       map[string]string{},
		copyWindow: CopyConfirmation,
	}
}

// Catalog returns the catalog the engine works on
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Subscribe registers fn to be called after every state change
func (e *Engine) Subscribe(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) notify() {
	e.mu.Lock()
	listeners := append([]func(){}, e.listeners...)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// SelectCategory selects a category and clears the template, the form and the result
func (e *Engine) SelectCategory(id string) error {
	cat, ok := e.catalog.Category(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}

	e.mu.Lock()
	e.category = cat
	e.template = nil
	e.resetFormLocked()
	e.mu.Unlock()

	e.notify()
	return nil
}

// SelectTemplate selects a template of the current category and clears the form
// and the result. The category stays selected.
func (e *Engine) SelectTemplate(id string) error {
	e.mu.Lock()
	if e.category == nil {
		e.mu.Unlock()
		return ErrNoCategory
	}
	var tpl *Template
	for i := range e.category.Templates {
		if e.category.Templates[i].ID == id {
			tpl = &e.category.Templates[i]
			break
		}
	}
	if tpl == nil {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q in category %q", ErrUnknownTemplate, id, e.category.ID)
	}
	e.template = tpl
	e.resetFormLocked()
	e.mu.Unlock()

	e.notify()
	return nil
}

// resetFormLocked must be called with mu held
func (e *Engine) resetFormLocked() {
	e.form = map[string]string{}
	e.result = ""
	e.loading = false
	e.generation++
	e.stopCopyLocked()
}

// SetField records the value of one field of the selected template
func (e *Engine) SetField(id, value string) error {
	e.mu.Lock()
	if e.template == nil {
		e.mu.Unlock()
		return ErrNoTemplate
	}
	known := false
	for _, f := range e.template.Fields {
		if f.ID == id {
			known = true
			break
		}
	}
	if !known {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	e.form[id] = value
	e.mu.Unlock()

	e.notify()
	return nil
}

// Values returns every field of the selected template; unedited fields are ""
func (e *Engine) Values() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.valuesLocked()
}

func (e *Engine) valuesLocked() map[string]string {
	values := map[string]string{}
	if e.template == nil {
		return values
	}
	for _, f := range e.template.Fields {
		values[f.ID] = e.form[f.ID]
	}
	return values
}

// SelectedCategory returns the selected category, nil if none
func (e *Engine) SelectedCategory() *Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.category
}

// SelectedTemplate returns the selected template, nil if none
func (e *Engine) SelectedTemplate() *Template {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.template
}

// Templates lists the templates of the selected category
func (e *Engine) Templates() []Template {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.category == nil {
		return nil
	}
	return e.category.Templates
}

// CanGenerate reports whether the generate action is enabled
func (e *Engine) CanGenerate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.template != nil && !e.loading
}

// Loading reports whether a generation is in flight
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Result returns the last generated document
func (e *Engine) Result() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Generate asks gen for a document built from the selected template and the
// form values. It blocks until the gateway answers. On failure the loading
// state is cleared and the result stays empty. A result arriving after the
// selection changed is dropped.
func (e *Engine) Generate(ctx context.Context, gen Generator, loc locale.Locale) error {
	e.mu.Lock()
	if e.template == nil {
		e.mu.Unlock()
		return ErrNoTemplate
	}
	if e.loading {
		e.mu.Unlock()
		return ErrGenerating
	}
	name := e.template.Name.Get(loc)
	values := e.valuesLocked()
	e.loading = true
	e.result = ""
	e.stopCopyLocked()
	generation := e.generation
	e.mu.Unlock()
	e.notify()

	text, err := gen.GenerateDocument(ctx, name, values, loc)

	e.mu.Lock()
	if generation != e.generation {
		e.mu.Unlock()
		e.logger.Debug("Discarding generated document for %q: selection changed", name)
		return nil
	}
	e.loading = false
	if err == nil {
		e.result = text
	}
	e.mu.Unlock()
	e.notify()

	if err != nil {
		e.logger.Error("Document generation failed for %q: %v", name, err)
		return fmt.Errorf("failed to generate document: %w", err)
	}
	return nil
}

// Copy writes the generated document to cb and raises Copied for CopyConfirmation
func (e *Engine) Copy(cb Clipboard) error {
	e.mu.Lock()
	if e.result == "" {
		e.mu.Unlock()
		return ErrNothingToCopy
	}
	text := e.result
	e.stopCopyLocked()
	e.copied = true
	e.copyToken++
	token := e.copyToken
	e.copyTimer = time.AfterFunc(e.copyWindow, func() {
		e.mu.Lock()
		if e.copyToken != token {
			e.mu.Unlock()
			return
		}
		e.copied = false
		e.copyTimer = nil
		e.mu.Unlock()
		e.notify()
	})
	e.mu.Unlock()

	cb.SetContent(text)
	e.notify()
	return nil
}

// Copied reports whether the copy confirmation is showing
func (e *Engine) Copied() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copied
}

// stopCopyLocked must be called with mu held
func (e *Engine) stopCopyLocked() {
	if e.copyTimer != nil {
		e.copyTimer.Stop()
		e.copyTimer = nil
	}
	e.copied = false
	e.copyToken++
}

// Close cancels the pending copy confirmation timer
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopCopyLocked()
	e.mu.Unlock()
}
