package attachment

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxFileSize bounds uploads read into memory
const DefaultMaxFileSize = 20 * 1024 * 1024

// FileReader reads user-selected files into attachments. The payload is
// encoded verbatim; nothing is re-compressed.
type FileReader struct {
	maxFileSize int64
}

// NewFileReader creates a reader; maxFileSize <= 0 selects DefaultMaxFileSize
func NewFileReader(maxFileSize int64) *FileReader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &FileReader{maxFileSize: maxFileSize}
}

// FromFile reads the file at path
func (r *FileReader) FromFile(path string) (Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("%w: file not found: %v", ErrUnreadable, err)
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("%w: %s is a directory", ErrUnreadable, path)
	}
	if info.Size() > r.maxFileSize {
		return Attachment{}, fmt.Errorf("%w: file too large: %d bytes (max %d bytes)", ErrUnreadable, info.Size(), r.maxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("%w: failed to open file: %v", ErrUnreadable, err)
	}
	defer f.Close()

	return r.FromReader(filepath.Base(path), f)
}

// FromReader reads everything from src; name is only used for MIME detection
func (r *FileReader) FromReader(name string, src io.Reader) (Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(src, r.maxFileSize+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("%w: failed to read file: %v", ErrUnreadable, err)
	}
	if int64(len(data)) > r.maxFileSize {
		return Attachment{}, fmt.Errorf("%w: file too large (max %d bytes)", ErrUnreadable, r.maxFileSize)
	}
	if len(data) == 0 {
		return Attachment{}, fmt.Errorf("%w: file is empty", ErrUnreadable)
	}

	return FromBytes(detectMimeType(name, data), data), nil
}

// detectMimeType tries the extension first, then sniffs the content
func detectMimeType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return stripParams(mimeType)
	}
	return stripParams(mimetype.Detect(data).String())
}

func stripParams(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx > 0 {
		return strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}
