package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown import format")

// Importer turns a batch file into raw invoice forms. Values are not validated here.
type Importer interface {
	Parse(r io.Reader) ([]invoice.Form, error)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
}
