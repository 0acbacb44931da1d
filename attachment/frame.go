package attachment

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
)

// V4L2 fourcc codes of the pixel formats a webcam stream is decoded from
const (
	pixelFormatYUYV  uint32 = 0x56595559
	pixelFormatMJPEG uint32 = 0x47504A4D
)

// ErrFrameFormat is returned for frames in a pixel format the scanner cannot decode
var ErrFrameFormat = errors.New("unsupported frame format")

// decodeFrame turns one raw webcam frame into an image. YUYV frames are
// copied, so data may be reused by the driver afterwards.
func decodeFrame(format uint32, data []byte, width, height int) (image.Image, error) {
	switch format {
	case pixelFormatYUYV:
		return decodeYUYV(data, width, height)
	case pixelFormatMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode MJPEG frame: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %#x", ErrFrameFormat, format)
	}
}

// decodeYUYV unpacks 4:2:2 Y0 U Y1 V macropixels
func decodeYUYV(data []byte, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 || width%2 != 0 {
		return nil, fmt.Errorf("%w: YUYV frame of %dx%d", ErrFrameFormat, width, height)
	}
	stride := width * 2
	if len(data) < stride*height {
		return nil, fmt.Errorf("short YUYV frame: %d bytes for %dx%d", len(data), width, height)
	}

	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio422)
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x += 2 {
			p := row[x*2 : x*2+4]
			yi := y*img.YStride + x
			img.Y[yi] = p[0]
			img.Y[yi+1] = p[2]
			ci := y*img.CStride + x/2
			img.Cb[ci] = p[1]
			img.Cr[ci] = p[3]
		}
	}
	return img, nil
}
