package ui

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonprofit-assistant/attachment"
)

type countingTrack struct{ stops int }

func (t *countingTrack) Stop() { t.stops++ }

type stillStream struct{ track *countingTrack }

func (s stillStream) Frame() (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 4, 4)), nil
}

func (s stillStream) Tracks() []attachment.Track {
	return []attachment.Track{s.track}
}

type stillCamera struct{ track *countingTrack }

func (c stillCamera) Open(context.Context) (attachment.Stream, error) {
	return stillStream{track: c.track}, nil
}

func TestRequestContext_HasNoDeadline(t *testing.T) {
	a := &App{}
	ctx := a.requestContext()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
	assert.Nil(t, ctx.Done())
}

func TestCloseScanner_ReleasesCamera(t *testing.T) {
	track := &countingTrack{}
	s := attachment.NewScanner(stillCamera{track: track}, attachment.DefaultScanOptions(), nil, nil)
	require.NoError(t, s.Start(context.Background()))

	a := &App{}
	a.trackScanner(s)
	a.closeScanner()
	assert.Equal(t, attachment.StateClosed, s.State())
	assert.Equal(t, 1, track.stops)

	a.closeScanner()
	assert.Equal(t, 1, track.stops)
}

func TestUntrackScanner_KeepsNewerSession(t *testing.T) {
	oldTrack, newTrack := &countingTrack{}, &countingTrack{}
	older := attachment.NewScanner(stillCamera{track: oldTrack}, attachment.DefaultScanOptions(), nil, nil)
	newer := attachment.NewScanner(stillCamera{track: newTrack}, attachment.DefaultScanOptions(), nil, nil)
	require.NoError(t, newer.Start(context.Background()))

	a := &App{}
	a.trackScanner(newer)
	a.untrackScanner(older)
	a.closeScanner()
	assert.Equal(t, 1, newTrack.stops)
	assert.Equal(t, 0, oldTrack.stops)
}
