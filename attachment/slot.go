package attachment

import "sync"

// Slot holds the single pending attachment of one composition site.
// Setting a new attachment replaces the previous one.
type Slot struct {
	mu      sync.Mutex
	pending *Attachment
}

// Set replaces whatever was pending
func (s *Slot) Set(a Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &a
}

// Pending returns the pending attachment without consuming it
func (s *Slot) Pending() (Attachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Attachment{}, false
	}
	return *s.pending, true
}

// Take consumes the pending attachment
func (s *Slot) Take() (Attachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Attachment{}, false
	}
	a := *s.pending
	s.pending = nil
	return a, true
}

// Clear drops the pending attachment
func (s *Slot) Clear() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}
