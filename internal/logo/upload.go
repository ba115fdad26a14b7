package logo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// State is the lifecycle of an Upload.
type State int

const (
	StatePending State = iota
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

var errNotPending = errors.New("upload is not pending")

// Upload reads a logo file into memory. It starts pending and ends either
// resolved with an Image or failed with the reason.
type Upload struct {
	Name         string
	DeclaredMIME string
	DeclaredSize int64

	state State
	image *Image
	err   error
}

// Begin starts an upload for a file the user picked. The declared type and size are
// checked up front; an upload that violates them is failed immediately.
func Begin(name, mimeType string, size int64) *Upload {
	u := &Upload{
		Name:         name,
		DeclaredMIME: mimeType,
		DeclaredSize: size,
		state:        StatePending,
	}

	if err := Check(mimeType, size); err != nil {
		u.fail(err)
	}

	return u
}

// Resolve reads the file content and completes the upload. The content is sniffed so that a
// renamed non-image, or a file larger than declared, is still rejected.
func (u *Upload) Resolve(r io.Reader) error {
	if u.state != StatePending {
		if u.err != nil {
			return u.err
		}

		return errNotPending
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return u.fail(fmt.Errorf("reading logo: %w", err))
	}

	detected := mimetype.Detect(data)
	if err := Check(detected.String(), int64(len(data))); err != nil {
		return u.fail(err)
	}

	u.image = &Image{MIME: baseType(detected.String()), Data: data}
	u.state = StateResolved

	return nil
}

func (u *Upload) fail(err error) error {
	u.err = err
	u.state = StateFailed
	u.image = nil

	return err
}

func (u *Upload) State() State { return u.state }

// Image returns the resolved logo, or nil while pending or after a failure.
func (u *Upload) Image() *Image { return u.image }

func (u *Upload) Err() error { return u.err }

// Read runs a whole upload in one call.
func Read(name, mimeType string, size int64, r io.Reader) (*Image, error) {
	u := Begin(name, mimeType, size)
	if err := u.Resolve(r); err != nil {
		return nil, err
	}

	return u.Image(), nil
}

// ReadFile uploads a logo from disk, declaring the type sniffed from the file itself.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening logo: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat logo: %w", err)
	}

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detecting logo type: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding logo: %w", err)
	}

	return Read(filepath.Base(path), detected.String(), info.Size(), f)
}

func baseType(m string) string {
	t, _, _ := strings.Cut(m, ";")
	return strings.TrimSpace(t)
}
