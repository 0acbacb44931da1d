// Package attachment turns uploaded files and camera captures into the single
// {data, mimeType} representation carried by chat messages and analysis requests.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Attachment is a MIME-typed binary payload. Data is base64 without a data: prefix.
type Attachment struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// DataURL re-materializes the attachment for display
func (a Attachment) DataURL() string {
	return "data:" + a.MimeType + ";base64," + a.Data
}

// IsImage reports whether the payload is an image
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// Bytes decodes the payload
func (a Attachment) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Data)
}

var (
	// ErrUnreadable wraps every failure to turn a source into an attachment
	ErrUnreadable = errors.New("unreadable attachment")
	// ErrInvalidDataURL is returned for strings not of the form data:<mime>;base64,<data>
	ErrInvalidDataURL = errors.New("invalid data URL")
)

// FromBytes encodes raw bytes as an attachment of the given type
func FromBytes(mimeType string, data []byte) Attachment {
	return Attachment{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// ParseDataURL splits a display string back into an attachment. The MIME type
// is the text between ':' and ';', the payload everything after the first ','.
func ParseDataURL(s string) (Attachment, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Attachment{}, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Attachment{}, ErrInvalidDataURL
	}
	mimeType, encoding, ok := strings.Cut(header, ";")
	if !ok || encoding != "base64" || mimeType == "" {
		return Attachment{}, fmt.Errorf("%w: header %q", ErrInvalidDataURL, header)
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return Attachment{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return Attachment{Data: payload, MimeType: mimeType}, nil
}
