package llm

import (
	"context"
	"errors"
	"sync"

	"nonprofit-assistant/locale"
)

// ErrNotConfigured is returned while no provider has been set up
var ErrNotConfigured = errors.New("AI provider is not configured")

// Switch is a Gateway whose backend can be replaced at runtime, so the
// settings dialog can change provider without rebuilding the components
// that hold the gateway.
type Switch struct {
	mu      sync.RWMutex
	current Gateway
}

// NewSwitch returns a Switch delegating to g, which may be nil
func NewSwitch(g Gateway) *Switch {
	return &Switch{current: g}
}

// Set replaces the backend. Calls already in flight finish on the old one.
func (s *Switch) Set(g Gateway) {
	s.mu.Lock()
	s.current = g
	s.mu.Unlock()
}

// Configured reports whether a backend is set
func (s *Switch) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *Switch) get() (Gateway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotConfigured
	}
	return s.current, nil
}

func (s *Switch) ChatRespond(ctx context.Context, prior []Message, msg Message, loc locale.Locale) (string, error) {
	g, err := s.get()
	if err != nil {
		return "", err
	}
	return g.ChatRespond(ctx, prior, msg, loc)
}

func (s *Switch) AnalyzeDocument(ctx context.Context, att Attachment, question string, loc locale.Locale) (string, error) {
	g, err := s.get()
	if err != nil {
		return "", err
	}
	return g.AnalyzeDocument(ctx, att, question, loc)
}

func (s *Switch) GenerateDocument(ctx context.Context, templateName string, fields map[string]string, loc locale.Locale) (string, error) {
	g, err := s.get()
	if err != nil {
		return "", err
	}
	return g.GenerateDocument(ctx, templateName, fields, loc)
}
