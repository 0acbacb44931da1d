package ui

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"

	"nonprofit-assistant/attachment"
)

// bitmapHeader is the BITMAPINFOHEADER that opens a CF_DIB clipboard block
type bitmapHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

const (
	biRGB       = 0
	biBitfields = 3

	bitmapHeaderSize = 40
)

// decodeDIB converts an uncompressed 24 or 32 bit device-independent bitmap
func decodeDIB(data []byte) (image.Image, error) {
	if len(data) < bitmapHeaderSize {
		return nil, errors.New("invalid DIB data: too small")
	}

	var header bitmapHeader
	if err := binary.Read(bytes.NewReader(data[:bitmapHeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read bitmap header: %w", err)
	}

	width := int(header.Width)
	height := int(header.Height)
	if height < 0 {
		height = -height
	}
	bitCount := int(header.BitCount)
	if bitCount != 24 && bitCount != 32 {
		return nil, fmt.Errorf("unsupported bit depth: %d", bitCount)
	}

	offset := bitmapHeaderSize
	switch header.Compression {
	case biRGB:
	case biBitfields:
		// three DWORD colour masks follow the header
		offset += 12
	default:
		return nil, fmt.Errorf("unsupported compression: %d", header.Compression)
	}

	// rows are padded to a multiple of four bytes
	stride := ((width*bitCount + 31) / 32) * 4
	if len(data) < offset+stride*height {
		return nil, errors.New("invalid DIB data: insufficient pixel data")
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	bottomUp := header.Height > 0
	bpp := bitCount / 8
	for y := 0; y < height; y++ {
		row := y
		if bottomUp {
			row = height - 1 - y
		}
		base := offset + y*stride
		for x := 0; x < width; x++ {
			p := base + x*bpp
			c := color.NRGBA{B: data[p], G: data[p+1], R: data[p+2], A: 255}
			if bpp == 4 && header.Compression == biBitfields {
				c.A = data[p+3]
			}
			img.SetNRGBA(x, row, c)
		}
	}
	return img, nil
}

// pasteAttachment reads an attachment from the system clipboard: a copied
// bitmap is encoded as PNG, a copied file is read through the reader.
// ok is false when the clipboard holds neither.
func (a *App) pasteAttachment() (att attachment.Attachment, name string, ok bool, err error) {
	dib, err := clipboardBitmap()
	if err != nil {
		return attachment.Attachment{}, "", false, err
	}
	if dib != nil {
		img, err := decodeDIB(dib)
		if err != nil {
			return attachment.Attachment{}, "", false, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return attachment.Attachment{}, "", false, fmt.Errorf("failed to encode pasted image: %w", err)
		}
		return attachment.FromBytes("image/png", buf.Bytes()), "capture.png", true, nil
	}

	files, err := clipboardFiles()
	if err != nil || len(files) == 0 {
		return attachment.Attachment{}, "", false, err
	}
	// a chat message carries one attachment
	att, err = a.reader.FromFile(files[0])
	if err != nil {
		return attachment.Attachment{}, "", false, err
	}
	return att, filepath.Base(files[0]), true, nil
}
