package attachment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"
)

// State of the capture surface
type State int

const (
	StateInit State = iota
	StateStreaming
	StateCaptured
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateStreaming:
		return "streaming"
	case StateCaptured:
		return "captured"
	case StateClosed:
		return "closed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoDevice         = errors.New("no camera device available")
	// ErrScannerClosed is returned by operations on a released scanner
	ErrScannerClosed = errors.New("scanner closed")
	// ErrWrongState is returned when an operation does not apply to the current state
	ErrWrongState = errors.New("operation not allowed in current state")
)

// Camera acquires a live stream
type Camera interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is a live camera feed. It belongs to whoever opened it until every track is stopped.
type Stream interface {
	Frame() (image.Image, error)
	Tracks() []Track
}

// Track is one stoppable source inside a stream
type Track interface {
	Stop()
}

// UnavailableCamera is used where no capture device can be driven
type UnavailableCamera struct{}

// Open implements Camera
func (UnavailableCamera) Open(context.Context) (Stream, error) {
	return nil, ErrNoDevice
}

// ScanOptions control the still produced by Capture
type ScanOptions struct {
	MaxEdge uint
	Quality int
}

// DefaultScanOptions returns the options used when none are configured
func DefaultScanOptions() ScanOptions {
	return ScanOptions{MaxEdge: 2048, Quality: 90}
}

// Scanner drives one capture session: acquire, capture, retake, confirm or close.
// Every track of the acquired stream is stopped exactly once, on confirm, on
// close, or when a stream arrives after the scanner was already closed.
type Scanner struct {
	mu        sync.Mutex
	camera    Camera
	opts      ScanOptions
	state     State
	stream    Stream
	still     string
	err       error
	onConfirm func(dataURL string)
	onClose   func(err error)
	listeners []func(State)
}

// NewScanner creates a scanner in StateInit. onConfirm receives the confirmed
// still as a data URL; onClose is called once when the surface should go away,
// with the acquisition error if it failed. Either callback may be nil.
func NewScanner(camera Camera, opts ScanOptions, onConfirm func(string), onClose func(error)) *Scanner {
	if camera == nil {
		camera = UnavailableCamera{}
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultScanOptions().Quality
	}
	return &Scanner{
		camera:    camera,
		opts:      opts,
		state:     StateInit,
		onConfirm: onConfirm,
		onClose:   onClose,
	}
}

// Subscribe registers fn to be called after every state change
func (s *Scanner) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the current state
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Still returns the pending captured still as a data URL, or "" if none
func (s *Scanner) Still() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.still
}

// Err returns the acquisition error once in StateError
func (s *Scanner) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Preview returns the live frame for display while streaming
func (s *Scanner) Preview() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStreaming {
		return nil, ErrWrongState
	}
	return s.stream.Frame()
}

// Start acquires the stream. It blocks until the camera answers.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateInit:
	case StateClosed:
		s.mu.Unlock()
		return ErrScannerClosed
	default:
		s.mu.Unlock()
		return ErrWrongState
	}
	s.mu.Unlock()

	stream, err := s.camera.Open(ctx)

	s.mu.Lock()
	if s.state != StateInit {
		// closed while acquiring: the late stream is never stored
		s.mu.Unlock()
		if stream != nil {
			stopTracks(stream)
		}
		return ErrScannerClosed
	}
	if err != nil {
		s.state = StateError
		s.err = err
		listeners := s.snapshotListeners()
		s.mu.Unlock()

		notify(listeners, StateError)
		if s.onClose != nil {
			s.onClose(err)
		}
		return err
	}
	s.stream = stream
	s.state = StateStreaming
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, StateStreaming)
	return nil
}

// Capture grabs the current frame, applies the scan filter and keeps the
// result as the single pending still.
func (s *Scanner) Capture() (string, error) {
	s.mu.Lock()
	if s.state != StateStreaming {
		defer s.mu.Unlock()
		if s.state == StateClosed {
			return "", ErrScannerClosed
		}
		return "", ErrWrongState
	}

	frame, err := s.stream.Frame()
	if err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("failed to read frame: %w", err)
	}
	data, err := encodeScan(frame, s.opts.MaxEdge, s.opts.Quality)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	s.still = FromBytes("image/jpeg", data).DataURL()
	s.state = StateCaptured
	still := s.still
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, StateCaptured)
	return still, nil
}

// Retake discards the still and returns to the live stream, which stays open
func (s *Scanner) Retake() error {
	s.mu.Lock()
	if s.state != StateCaptured {
		s.mu.Unlock()
		return ErrWrongState
	}
	s.still = ""
	s.state = StateStreaming
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, StateStreaming)
	return nil
}

// Confirm releases the camera, hands the still to onConfirm and closes the surface
func (s *Scanner) Confirm() error {
	s.mu.Lock()
	if s.state != StateCaptured {
		s.mu.Unlock()
		return ErrWrongState
	}
	still := s.still
	s.release()
	s.state = StateClosed
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, StateClosed)
	if s.onConfirm != nil {
		s.onConfirm(still)
	}
	if s.onClose != nil {
		s.onClose(nil)
	}
	return nil
}

// Close releases the camera from any state. Closing twice is a no-op.
func (s *Scanner) Close() {
	s.mu.Lock()
	if s.state == StateClosed || s.state == StateError {
		s.mu.Unlock()
		return
	}
	s.release()
	s.state = StateClosed
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, StateClosed)
	if s.onClose != nil {
		s.onClose(nil)
	}
}

// release must be called with mu held
func (s *Scanner) release() {
	s.still = ""
	if s.stream == nil {
		return
	}
	stopTracks(s.stream)
	s.stream = nil
}

func (s *Scanner) snapshotListeners() []func(State) {
	return slices.Clone(s.listeners)
}

func stopTracks(stream Stream) {
	for _, t := range stream.Tracks() {
		t.Stop()
	}
}

func notify(listeners []func(State), st State) {
	for _, fn := range listeners {
		fn(st)
	}
}
