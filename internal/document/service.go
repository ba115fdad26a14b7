package document

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Archiver keeps a copy of every generated document.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) error
}

// Document is a rendered invoice ready to be handed to the user.
type Document struct {
	FileName string
	Data     []byte
	Totals   invoice.Totals
}

type Option func(*Service)

// WithArchiver stores a copy of every successful document. Archive failures are logged only.
func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithRenderer replaces the gofpdf renderer, mostly for tests.
func WithRenderer(newRenderer func() Renderer) Option {
	return func(s *Service) { s.newRenderer = newRenderer }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Service validates an invoice, renders it and optionally archives the result.
type Service struct {
	newRenderer func() Renderer
	archiver    Archiver
	now         func() time.Time
	logger      *slog.Logger
}

func NewService(opts ...Option) *Service {
	s := &Service{
		newRenderer: func() Renderer { return NewPDF() },
		now:         time.Now,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Generate renders the invoice. Invalid input returns an *invoice.ValidationError and nothing
// is drawn; a renderer failure returns ErrRender and no bytes.
func (s *Service) Generate(ctx context.Context, in invoice.Input) (*Document, error) {
	if errs := invoice.Validate(in); !errs.OK() {
		return nil, &invoice.ValidationError{Errors: errs}
	}

	totals := in.Totals()

	composer := NewComposer(s.now, s.logger)

	data, err := composer.RenderWith(s.newRenderer(), in, totals)
	if err != nil {
		s.logger.Error("error generating PDF", "error", err, "invoice", in.InvoiceNumber)
		return nil, fmt.Errorf("generating invoice %s: %w", in.InvoiceNumber, err)
	}

	doc := &Document{
		FileName: in.FileName(),
		Data:     data,
		Totals:   totals,
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, doc.FileName, doc.Data); err != nil {
			s.logger.Error("error archiving invoice", "error", err, "file", doc.FileName)
		}
	}

	return doc, nil
}
