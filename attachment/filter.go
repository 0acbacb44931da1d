package attachment

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/nfnt/resize"
)

const (
	scanContrast   = 1.5
	scanBrightness = 1.1
)

// scanLUT maps a gray level through contrast then brightness
var scanLUT = func() [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		v := (float64(i)-128)*scanContrast + 128
		v *= scanBrightness
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		lut[i] = uint8(v + 0.5)
	}
	return lut
}()

// scanFilter renders a frame the way a flatbed scan looks: grayscale,
// stronger contrast, slightly brighter.
func scanFilter(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			dst.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: scanLUT[g.Y]})
		}
	}
	return dst
}

// encodeScan filters, downsizes to maxEdge and encodes as JPEG
func encodeScan(frame image.Image, maxEdge uint, quality int) ([]byte, error) {
	var img image.Image = scanFilter(frame)

	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())
	if maxEdge > 0 && (width > maxEdge || height > maxEdge) {
		if width > height {
			img = resize.Resize(maxEdge, 0, img, resize.Lanczos3)
		} else {
			img = resize.Resize(0, maxEdge, img, resize.Lanczos3)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
