package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/jsonfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Service struct {
	importers map[Format]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatJSON: jsonfile.NewParser(),
			FormatCSV:  csvfile.NewParser(),
		},
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]invoice.Form, error) {
	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return importer.Parse(r)
}
