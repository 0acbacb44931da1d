//go:build linux

package attachment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/blackjack/webcam"
)

const (
	// frameWaitSeconds bounds one wait for the driver, and so how long Stop blocks
	frameWaitSeconds = 1

	defaultMaxWidth  = 1280
	defaultMaxHeight = 720
)

// errNoFrame is returned by Frame until the first frame has been decoded
var errNoFrame = errors.New("no frame received yet")

// V4L2Camera opens a Video4Linux capture device
type V4L2Camera struct {
	// Device is the device node; empty selects the first /dev/video*
	Device    string
	MaxWidth  uint32
	MaxHeight uint32
}

// SystemCamera returns the Video4Linux camera at device, or the first one found
func SystemCamera(device string) Camera {
	return &V4L2Camera{Device: device, MaxWidth: defaultMaxWidth, MaxHeight: defaultMaxHeight}
}

// Open implements Camera. Streaming starts before Open returns; frames are
// decoded in the background until the stream's track is stopped.
func (c *V4L2Camera) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := c.Device
	if path == "" {
		matches, _ := filepath.Glob("/dev/video*")
		if len(matches) == 0 {
			return nil, ErrNoDevice
		}
		sort.Strings(matches)
		path = matches[0]
	}

	cam, err := webcam.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}

	maxW, maxH := c.MaxWidth, c.MaxHeight
	if maxW == 0 || maxH == 0 {
		maxW, maxH = defaultMaxWidth, defaultMaxHeight
	}
	format, width, height, err := negotiate(cam, maxW, maxH)
	if err != nil {
		cam.Close()
		return nil, err
	}
	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("%w: failed to start streaming on %s: %v", ErrNoDevice, path, err)
	}

	s := &v4l2Stream{
		cam:      cam,
		format:   format,
		width:    int(width),
		height:   int(height),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func openError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %v", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrNoDevice, path, err)
	}
}

// negotiate picks YUYV, or MJPEG when the device lacks it, at the largest
// frame size within maxW x maxH
func negotiate(cam *webcam.Webcam, maxW, maxH uint32) (uint32, uint32, uint32, error) {
	supported := cam.GetSupportedFormats()
	var format webcam.PixelFormat
	found := false
	for _, f := range []uint32{pixelFormatYUYV, pixelFormatMJPEG} {
		if _, ok := supported[webcam.PixelFormat(f)]; ok {
			format, found = webcam.PixelFormat(f), true
			break
		}
	}
	if !found {
		return 0, 0, 0, fmt.Errorf("%w: no YUYV or MJPEG output", ErrNoDevice)
	}

	var bestW, bestH uint32
	for _, size := range cam.GetSupportedFrameSizes(format) {
		if size.MinWidth > maxW || size.MinHeight > maxH {
			continue
		}
		w, h := min(size.MaxWidth, maxW), min(size.MaxHeight, maxH)
		if w*h > bestW*bestH {
			bestW, bestH = w, h
		}
	}
	if bestW == 0 {
		bestW, bestH = 640, 480
	}

	got, w, h, err := cam.SetImageFormat(format, bestW, bestH)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: failed to set image format: %v", ErrNoDevice, err)
	}
	return uint32(got), w, h, nil
}

// v4l2Stream keeps the latest decoded frame. It is its own single track.
type v4l2Stream struct {
	cam    *webcam.Webcam
	format uint32
	width  int
	height int

	mu    sync.Mutex
	frame image.Image
	err   error

	once     sync.Once
	done     chan struct{}
	finished chan struct{}
}

func (s *v4l2Stream) run() {
	defer close(s.finished)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		err := s.cam.WaitForFrame(frameWaitSeconds)
		var timeout *webcam.Timeout
		if errors.As(err, &timeout) {
			continue
		}
		if err != nil {
			s.fail(fmt.Errorf("failed to wait for frame: %w", err))
			return
		}

		data, err := s.cam.ReadFrame()
		if err != nil {
			s.fail(fmt.Errorf("failed to read frame: %w", err))
			return
		}
		if len(data) == 0 {
			continue
		}
		img, err := decodeFrame(s.format, data, s.width, s.height)
		if err != nil {
			// a corrupt frame is dropped, the next one replaces it
			continue
		}
		s.mu.Lock()
		s.frame = img
		s.mu.Unlock()
	}
}

func (s *v4l2Stream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Frame implements Stream
func (s *v4l2Stream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.frame == nil {
		return nil, errNoFrame
	}
	return s.frame, nil
}

// Tracks implements Stream
func (s *v4l2Stream) Tracks() []Track {
	return []Track{s}
}

// Stop ends the reader and releases the device. Later calls are no-ops.
func (s *v4l2Stream) Stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.finished
		s.cam.StopStreaming()
		s.cam.Close()

		s.mu.Lock()
		s.err = errors.New("stream stopped")
		s.frame = nil
		s.mu.Unlock()
	})
}
