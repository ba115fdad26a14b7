package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/document"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

// Item is the outcome of one invoice in a batch. Either FilePath or Err is set.
type Item struct {
	InvoiceNumber string
	ClientName    string
	Currency      invoice.Currency
	Totals        invoice.Totals
	FilePath      string
	Err           error
}

type Generator interface {
	Generate(ctx context.Context, in invoice.Input) (*document.Document, error)
}

// Service generates invoice PDFs in bulk and writes them to a directory.
type Service struct {
	generator Generator
}

func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// Prepare fills every row with the template values and the fresh form defaults it does not
// set itself. Rows without an invoice number get their own generated one.
func Prepare(now time.Time, tpl template.Template, rows []invoice.Form) []invoice.Form {
	forms := make([]invoice.Form, 0, len(rows))

	for _, row := range rows {
		f := invoice.NewForm(now)
		tpl.Prefill(&f)
		f.Overlay(row)

		if strings.TrimSpace(row.InvoiceDate) != "" && strings.TrimSpace(row.DueDate) == "" {
			f.SetInvoiceDate(row.InvoiceDate)
		}

		forms = append(forms, f)
	}

	return forms
}

// Export generates a PDF for every form into outputDir. A failing invoice is recorded on its
// item and does not stop the batch; only setup errors and cancellation are returned.
func (s *Service) Export(ctx context.Context, forms []invoice.Form, outputDir string) ([]Item, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(forms))

	for _, f := range forms {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		items = append(items, s.exportOne(ctx, f, outputDir))
	}

	return items, nil
}

func (s *Service) exportOne(ctx context.Context, f invoice.Form, dir string) Item {
	item := Item{
		InvoiceNumber: f.InvoiceNumber,
		ClientName:    f.ClientName,
		Currency:      invoice.Currency(f.Currency),
	}

	in, err := f.Input()
	if err != nil {
		item.Err = err
		return item
	}

	doc, err := s.generator.Generate(ctx, in)
	if err != nil {
		item.Err = err
		return item
	}

	item.Totals = doc.Totals

	path := filepath.Join(dir, SafeFileName(doc.FileName))
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		item.Err = fmt.Errorf("writing %s: %w", path, err)
		return item
	}

	item.FilePath = path

	return item
}

// SafeFileName replaces path separators so a generated name stays inside the output directory.
func SafeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}

		return r
	}, name)
}

// GenerateSummary lists every item on its own line, with the file written or why it failed.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		status := filepath.Base(item.FilePath)
		if item.Err != nil {
			status = "FAILED: " + failureReason(item.Err)
		}

		total := invoice.FormatCurrency(item.Totals.Total, item.Currency)
		if item.Err != nil {
			total = "-"
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | %s | %s\n", item.InvoiceNumber, item.ClientName, total, status))
	}

	return sb.String()
}

func failureReason(err error) string {
	var verr *invoice.ValidationError
	if errors.As(err, &verr) {
		fields := verr.Errors.Fields()

		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, string(f))
		}

		return invoice.GenericPrompt + " (" + strings.Join(names, ", ") + ")"
	}

	if errors.Is(err, document.ErrRender) {
		return document.GenericRenderMessage
	}

	return err.Error()
}
