package attachment

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrack struct {
	mu    sync.Mutex
	stops int
}

func (t *fakeTrack) Stop() {
	t.mu.Lock()
	t.stops++
	t.mu.Unlock()
}

func (t *fakeTrack) Stops() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stops
}

type fakeStream struct {
	tracks []*fakeTrack
	frame  image.Image
}

func newFakeStream(w, h int) *fakeStream {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: 120, B: uint8(y * 10), A: 255})
		}
	}
	return &fakeStream{tracks: []*fakeTrack{{}, {}}, frame: img}
}

func (s *fakeStream) Frame() (image.Image, error) {
	for _, t := range s.tracks {
		if t.Stops() > 0 {
			return nil, errors.New("track ended")
		}
	}
	return s.frame, nil
}

func (s *fakeStream) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		out[i] = t
	}
	return out
}

func (s *fakeStream) assertStoppedOnce(t *testing.T) {
	t.Helper()
	for _, tr := range s.tracks {
		assert.Equal(t, 1, tr.Stops())
	}
}

type fakeCamera struct {
	stream  *fakeStream
	err     error
	entered chan struct{}
	gate    chan struct{}
}

func (c *fakeCamera) Open(ctx context.Context) (Stream, error) {
	if c.entered != nil {
		close(c.entered)
	}
	if c.gate != nil {
		<-c.gate
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.stream, nil
}

func TestScanner_CaptureConfirm(t *testing.T) {
	stream := newFakeStream(40, 20)
	var confirmed []string
	var closes []error
	s := NewScanner(&fakeCamera{stream: stream}, ScanOptions{MaxEdge: 16},
		func(u string) { confirmed = append(confirmed, u) },
		func(err error) { closes = append(closes, err) })

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateStreaming, s.State())

	still, err := s.Capture()
	require.NoError(t, err)
	assert.Equal(t, StateCaptured, s.State())
	assert.True(t, strings.HasPrefix(still, "data:image/jpeg;base64,"))

	a, err := ParseDataURL(still)
	require.NoError(t, err)
	data, err := a.Bytes()
	require.NoError(t, err)
	img, err := jpeg.Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	require.NoError(t, s.Confirm())
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, []string{still}, confirmed)
	assert.Equal(t, []error{nil}, closes)
	stream.assertStoppedOnce(t)

	s.Close()
	stream.assertStoppedOnce(t)
	assert.Len(t, closes, 1)
}

func TestScanner_RetakeKeepsStreamAndSingleStill(t *testing.T) {
	stream := newFakeStream(8, 8)
	s := NewScanner(&fakeCamera{stream: stream}, DefaultScanOptions(), nil, nil)
	_, err := s.Preview()
	assert.ErrorIs(t, err, ErrWrongState)
	require.NoError(t, s.Start(context.Background()))

	frame, err := s.Preview()
	require.NoError(t, err)
	assert.Equal(t, 8, frame.Bounds().Dx())

	_, err = s.Capture()
	require.NoError(t, err)
	_, err = s.Preview()
	assert.ErrorIs(t, err, ErrWrongState)
	require.NoError(t, s.Retake())
	assert.Equal(t, StateStreaming, s.State())
	assert.Empty(t, s.Still())
	for _, tr := range stream.tracks {
		assert.Zero(t, tr.Stops())
	}

	second, err := s.Capture()
	require.NoError(t, err)
	assert.Equal(t, second, s.Still())

	_, err = s.Capture()
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Equal(t, second, s.Still())

	s.Close()
	stream.assertStoppedOnce(t)
}

func TestScanner_CloseStopsDelivery(t *testing.T) {
	stream := newFakeStream(8, 8)
	s := NewScanner(&fakeCamera{stream: stream}, DefaultScanOptions(), nil, nil)
	require.NoError(t, s.Start(context.Background()))

	s.Close()
	stream.assertStoppedOnce(t)

	_, err := s.Capture()
	assert.ErrorIs(t, err, ErrScannerClosed)
	_, err = stream.Frame()
	assert.Error(t, err)
	assert.ErrorIs(t, s.Retake(), ErrWrongState)
	assert.ErrorIs(t, s.Confirm(), ErrWrongState)
}

func TestScanner_AcquisitionError(t *testing.T) {
	for _, camErr := range []error{ErrPermissionDenied, ErrNoDevice} {
		var closedWith error
		var states []State
		s := NewScanner(&fakeCamera{err: camErr}, DefaultScanOptions(), nil, func(err error) { closedWith = err })
		s.Subscribe(func(st State) { states = append(states, st) })

		err := s.Start(context.Background())
		assert.ErrorIs(t, err, camErr)
		assert.Equal(t, StateError, s.State())
		assert.ErrorIs(t, s.Err(), camErr)
		assert.ErrorIs(t, closedWith, camErr)
		assert.Equal(t, []State{StateError}, states)

		_, err = s.Capture()
		assert.ErrorIs(t, err, ErrWrongState)
	}
}

func TestScanner_UnavailableCamera(t *testing.T) {
	s := NewScanner(nil, DefaultScanOptions(), nil, nil)
	assert.ErrorIs(t, s.Start(context.Background()), ErrNoDevice)
	assert.Equal(t, StateError, s.State())
}

func TestScanner_CloseDuringAcquisition(t *testing.T) {
	stream := newFakeStream(8, 8)
	cam := &fakeCamera{stream: stream, entered: make(chan struct{}), gate: make(chan struct{})}
	closes := 0
	s := NewScanner(cam, DefaultScanOptions(), nil, func(error) { closes++ })

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	<-cam.entered
	s.Close()
	close(cam.gate)

	assert.ErrorIs(t, <-done, ErrScannerClosed)
	assert.Equal(t, StateClosed, s.State())
	stream.assertStoppedOnce(t)
	assert.Equal(t, 1, closes)

	_, err := s.Capture()
	assert.ErrorIs(t, err, ErrScannerClosed)
}

func TestScanFilter(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 128})
	img.SetGray(2, 0, color.Gray{Y: 255})

	out := scanFilter(img)
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(141), out.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(2, 0).Y)
}

func TestScanner_ListenersSeeEveryTransition(t *testing.T) {
	stream := newFakeStream(8, 8)
	s := NewScanner(&fakeCamera{stream: stream}, DefaultScanOptions(), nil, nil)

	var first, second, late []State
	s.Subscribe(func(st State) { first = append(first, st) })
	s.Subscribe(func(st State) {
		second = append(second, st)
		if st == StateCaptured && late == nil {
			// subscribing from a callback must not block on the scanner
			late = []State{}
			s.Subscribe(func(st State) { late = append(late, st) })
		}
	})

	require.NoError(t, s.Start(context.Background()))
	_, err := s.Capture()
	require.NoError(t, err)
	require.NoError(t, s.Retake())
	_, err = s.Capture()
	require.NoError(t, err)
	require.NoError(t, s.Confirm())

	want := []State{StateStreaming, StateCaptured, StateStreaming, StateCaptured, StateClosed}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
	assert.Equal(t, want[2:], late)
}
