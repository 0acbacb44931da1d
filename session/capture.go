package session

import "sync"

// CaptureSlot is the one outstanding "open the scanner, resume with the
// image" request. Arming replaces any earlier request; the callback runs at
// most once.
type CaptureSlot struct {
	mu     sync.Mutex
	resume func(dataURL string)
}

// Arm stores resume, dropping any callback that was waiting
func (s *CaptureSlot) Arm(resume func(dataURL string)) {
	s.mu.Lock()
	s.resume = resume
	s.mu.Unlock()
}

// Fulfill hands dataURL to the armed callback and clears the slot.
// It reports false when nothing was armed.
func (s *CaptureSlot) Fulfill(dataURL string) bool {
	s.mu.Lock()
	resume := s.resume
	s.resume = nil
	s.mu.Unlock()

	if resume == nil {
		return false
	}
	resume(dataURL)
	return true
}

// Cancel clears the slot without calling the callback
func (s *CaptureSlot) Cancel() {
	s.mu.Lock()
	s.resume = nil
	s.mu.Unlock()
}

// Armed reports whether a callback is waiting
func (s *CaptureSlot) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resume != nil
}
