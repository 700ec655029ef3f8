package entity

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrUnsupportedAttachment is returned when uploaded content is not an image
	ErrUnsupportedAttachment = errors.New("unsupported attachment type")

	// ErrAttachmentTooLarge is returned when uploaded content exceeds the configured bound
	ErrAttachmentTooLarge = errors.New("attachment too large")

	// ErrEmptyAttachment is returned for zero-byte uploads
	ErrEmptyAttachment = errors.New("attachment is empty")
)

// Attachment is an image embedded in the invoice as a data URI.
type Attachment struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	DataURI  string `json:"data_uri"`
}

// NewAttachment sniffs content, accepts only images and encodes it as a
// base64 data URI. maxBytes <= 0 disables the size check.
func NewAttachment(fileName string, content []byte, maxBytes int64) (*Attachment, error) {
	if len(content) == 0 {
		return nil, ErrEmptyAttachment
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrAttachmentTooLarge, len(content), maxBytes)
	}

	mtype := mimetype.Detect(content)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAttachment, mtype.String())
	}
	mime := strings.SplitN(mtype.String(), ";", 2)[0]

	return &Attachment{
		FileName: fileName,
		MimeType: mime,
		Size:     int64(len(content)),
		DataURI:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content),
	}, nil
}

// Decode returns the raw image bytes carried by the data URI
func (a *Attachment) Decode() ([]byte, error) {
	_, payload, ok := strings.Cut(a.DataURI, ";base64,")
	if !ok || !strings.HasPrefix(a.DataURI, "data:") {
		return nil, fmt.Errorf("attachment %s: not a base64 data URI", a.FileName)
	}
	return base64.StdEncoding.DecodeString(payload)
}

// IsEmbedded reports whether the attachment can be drawn without fetching
// anything from another origin.
func (a *Attachment) IsEmbedded() bool {
	return a != nil && strings.HasPrefix(a.DataURI, "data:")
}
