package logo

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxSize is the largest accepted logo, in bytes.
const MaxSize = 2 * 1024 * 1024

var (
	ErrNotImage       = errors.New("logo is not an image")
	ErrTooLarge       = errors.New("logo is too large")
	ErrInvalidDataURL = errors.New("invalid logo data URL")
)

// Image is an uploaded logo held in memory.
type Image struct {
	MIME string
	Data []byte
}

func (i *Image) Size() int64 {
	return int64(len(i.Data))
}

// DataURL encodes the image as a base64 data URL, the form it takes inside a saved template.
func (i *Image) DataURL() string {
	return "data:" + i.MIME + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseDataURL decodes a base64 data URL produced by DataURL or by a browser file reader.
func ParseDataURL(s string) (*Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return &Image{MIME: mimeType, Data: data}, nil
}

// Check applies the upload constraint: an image/* MIME type and at most MaxSize bytes.
func Check(mimeType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/") {
		return fmt.Errorf("%w: got %q", ErrNotImage, mimeType)
	}

	if size > MaxSize {
		return fmt.Errorf("%w: %s exceeds %s", ErrTooLarge, humanize.IBytes(uint64(size)), humanize.IBytes(MaxSize))
	}

	return nil
}

// UserMessage maps an upload error to the message shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrTooLarge):
		return "Image size should be less than 2MB"
	case errors.Is(err, ErrNotImage), errors.Is(err, ErrInvalidDataURL):
		return "Please upload a valid image file"
	}

	return "Error reading image. Please try again."
}
