package attachment

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame_YUYV(t *testing.T) {
	// two rows of one macropixel each: Y0 U Y1 V
	data := []byte{
		10, 100, 20, 200,
		30, 110, 40, 210,
	}
	img, err := decodeFrame(pixelFormatYUYV, data, 2, 2)
	require.NoError(t, err)

	ycc, ok := img.(*image.YCbCr)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 2, 2), ycc.Bounds())
	assert.Equal(t, color.YCbCr{Y: 10, Cb: 100, Cr: 200}, ycc.YCbCrAt(0, 0))
	assert.Equal(t, color.YCbCr{Y: 20, Cb: 100, Cr: 200}, ycc.YCbCrAt(1, 0))
	assert.Equal(t, color.YCbCr{Y: 30, Cb: 110, Cr: 210}, ycc.YCbCrAt(0, 1))
	assert.Equal(t, color.YCbCr{Y: 40, Cb: 110, Cr: 210}, ycc.YCbCrAt(1, 1))

	// the decoded frame does not alias the driver buffer
	data[0] = 0
	assert.Equal(t, uint8(10), ycc.YCbCrAt(0, 0).Y)
}

func TestDecodeFrame_MJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := decodeFrame(pixelFormatMJPEG, buf.Bytes(), 16, 8)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	_, err = decodeFrame(pixelFormatMJPEG, []byte("not a jpeg"), 16, 8)
	assert.Error(t, err)
}

func TestDecodeFrame_Rejects(t *testing.T) {
	_, err := decodeFrame(0x34324752, make([]byte, 64), 4, 4)
	assert.ErrorIs(t, err, ErrFrameFormat)

	_, err = decodeFrame(pixelFormatYUYV, make([]byte, 64), 3, 4)
	assert.ErrorIs(t, err, ErrFrameFormat)

	_, err = decodeFrame(pixelFormatYUYV, make([]byte, 8), 4, 4)
	assert.Error(t, err)
}
