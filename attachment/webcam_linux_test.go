//go:build linux

package attachment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestV4L2Camera_MissingDevice(t *testing.T) {
	cam := SystemCamera("/nonexistent/video9")
	_, err := cam.Open(context.Background())
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestV4L2Camera_CancelledBeforeOpen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SystemCamera("/nonexistent/video9").Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanner_MissingDeviceTakesErrorPath(t *testing.T) {
	var closedWith error
	s := NewScanner(SystemCamera("/nonexistent/video9"), DefaultScanOptions(), nil, func(err error) { closedWith = err })
	assert.ErrorIs(t, s.Start(context.Background()), ErrNoDevice)
	assert.Equal(t, StateError, s.State())
	assert.ErrorIs(t, closedWith, ErrNoDevice)
}
