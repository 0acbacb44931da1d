// Package analysis is the document-analysis workspace: one pending document,
// one question, one answer.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/utils"
)

var (
	ErrNoDocument = errors.New("no document loaded")
	ErrNoQuestion = errors.New("question is empty")
	ErrInProgress = errors.New("analysis already in progress")
)

// Analyzer is the part of the gateway the workspace needs
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, att llm.Attachment, question string, loc locale.Locale) (string, error)
}

// Workspace holds the analysis view state
type Workspace struct {
	mu     sync.Mutex
	reader *attachment.FileReader
	logger *utils.Logger

	document attachment.Slot
	fileName string
	scanned  bool
	question string
	result   string
	// errID is a locale message id, shown inline until the next successful step
	errID   string
	loading bool

	listeners []func()
}

// NewWorkspace creates an empty workspace
func NewWorkspace(reader *attachment.FileReader, logger *utils.Logger) *Workspace {
	if reader == nil {
		reader = attachment.NewFileReader(0)
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Workspace{reader: reader, logger: logger}
}

// Subscribe registers fn to be called after every state change
func (w *Workspace) Subscribe(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

func (w *Workspace) notify() {
	w.mu.Lock()
	listeners := append([]func(){}, w.listeners...)
	w.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// LoadFile reads path as the document to analyze. On failure the inline
// error is set and the previous document, question and result are kept.
func (w *Workspace) LoadFile(path string) error {
	att, err := w.reader.FromFile(path)
	if err != nil {
		w.logger.Warn("Failed to read document %s: %v", path, err)
		w.setError(locale.FileReadError)
		return err
	}

	w.mu.Lock()
	w.document.Set(att)
	w.fileName = filepath.Base(path)
	w.scanned = false
	w.errID = ""
	w.mu.Unlock()

	w.notify()
	return nil
}

// AcceptCapture takes a confirmed scan as the document to analyze
func (w *Workspace) AcceptCapture(dataURL string) error {
	att, err := attachment.ParseDataURL(dataURL)
	if err != nil {
		w.logger.Warn("Rejected captured image: %v", err)
		w.setError(locale.FileReadError)
		return err
	}

	w.mu.Lock()
	w.document.Set(att)
	w.fileName = ""
	w.scanned = true
	w.errID = ""
	w.mu.Unlock()

	w.notify()
	return nil
}

func (w *Workspace) setError(id string) {
	w.mu.Lock()
	w.errID = id
	w.mu.Unlock()
	w.notify()
}

// SetQuestion records the question to ask
func (w *Workspace) SetQuestion(q string) {
	w.mu.Lock()
	w.question = q
	w.mu.Unlock()
	w.notify()
}

// Document returns the pending document
func (w *Workspace) Document() (attachment.Attachment, bool) {
	return w.document.Pending()
}

// FileName returns the display name of the document
func (w *Workspace) FileName(loc locale.Locale) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scanned {
		return locale.T(loc, locale.ScannedDocument)
	}
	return w.fileName
}

// Question returns the current question
func (w *Workspace) Question() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.question
}

// Result returns the last answer
func (w *Workspace) Result() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Error returns the inline error in loc, "" if none
func (w *Workspace) Error(loc locale.Locale) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.errID == "" {
		return ""
	}
	return locale.T(loc, w.errID)
}

// Loading reports whether an analysis is in flight
func (w *Workspace) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// CanAnalyze reports whether the analyze action is enabled
func (w *Workspace) CanAnalyze() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.document.Pending()
	return ok && strings.TrimSpace(w.question) != "" && !w.loading
}

// Analyze sends the document and the question to the gateway and blocks
// until it answers. Failures leave the result empty and set the inline error.
func (w *Workspace) Analyze(ctx context.Context, analyzer Analyzer, loc locale.Locale) error {
	w.mu.Lock()
	att, ok := w.document.Pending()
	question := strings.TrimSpace(w.question)
	switch {
	case !ok:
		w.mu.Unlock()
		return ErrNoDocument
	case question == "":
		w.mu.Unlock()
		return ErrNoQuestion
	case w.loading:
		w.mu.Unlock()
		return ErrInProgress
	}
	w.loading = true
	w.result = ""
	w.errID = ""
	w.mu.Unlock()
	w.notify()

	text, err := analyzer.AnalyzeDocument(ctx, att, question, loc)

	w.mu.Lock()
	w.loading = false
	if err != nil {
		w.errID = locale.AnalysisFailure
	} else {
		w.result = text
	}
	w.mu.Unlock()
	w.notify()

	if err != nil {
		w.logger.Error("Document analysis failed: %v", err)
		return fmt.Errorf("failed to analyze document: %w", err)
	}
	return nil
}
