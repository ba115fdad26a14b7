package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/invoicer/internal/encoding"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// minHeaderColumns is how many known columns a row needs to be taken as the header.
const minHeaderColumns = 2

var ErrNoHeader = errors.New("no invoice header found")

// Parser reads spreadsheet exports with one invoice per row. The header row is found by
// matching column names, so title rows above it are ignored. Both ';' and ',' separated
// files are accepted, in any encoding Sniff can detect.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]invoice.Form, error) {
	utf8r, charset, err := enc.Sniff(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("reading invoice csv", "charset", charset)

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	var (
		bestRows   [][]string
		bestCols   colIndex
		bestHeader = -1
	)

	for _, comma := range []rune{';', ','} {
		rows, err := readAll(content, comma)
		if err != nil {
			continue
		}

		cols, headerIdx := detectHeader(rows)
		if headerIdx >= 0 && len(cols) > len(bestCols) {
			bestRows, bestCols, bestHeader = rows, cols, headerIdx
		}
	}

	if bestHeader < 0 {
		return nil, fmt.Errorf("%w: expected columns such as client, description, quantity and rate", ErrNoHeader)
	}

	return parseRows(bestCols, bestRows[bestHeader+1:]), nil
}

func readAll(content []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// detectHeader returns the columns of the first row that names enough known fields.
func detectHeader(rows [][]string) (colIndex, int) {
	for i, row := range rows {
		if cols := headerColumns(row); len(cols) >= minHeaderColumns {
			return cols, i
		}
	}

	return nil, -1
}

func parseRows(cols colIndex, rows [][]string) []invoice.Form {
	var forms []invoice.Form

	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		forms = append(forms, parseRow(cols, row))
	}

	return forms
}

func parseRow(cols colIndex, row []string) invoice.Form {
	get := func(f invoice.Field) string {
		idx, ok := cols[f]
		if !ok {
			return ""
		}

		return cellValue(row, idx)
	}

	f := invoice.Form{
		BusinessName:       get(invoice.FieldBusinessName),
		Currency:           get(invoice.FieldCurrency),
		InvoiceNumber:      get(invoice.FieldInvoiceNumber),
		ClientName:         get(invoice.FieldClientName),
		ServiceDescription: get(invoice.FieldServiceDescription),
		Quantity:           invoice.Raw(get(invoice.FieldQuantity)),
		Rate:               invoice.Raw(get(invoice.FieldRate)),
		TaxRate:            invoice.Raw(get(invoice.FieldTaxRate)),
		AdditionalNotes:    get(invoice.FieldAdditionalNotes),
		Watermark:          parseFlag(get(invoice.FieldWatermark)),
	}

	if date := get(invoice.FieldInvoiceDate); date != "" {
		f.SetInvoiceDate(normalizeDate(date))
	}

	if due := get(invoice.FieldDueDate); due != "" {
		f.DueDate = normalizeDate(due)
	}

	return f
}

var dateLayouts = []string{time.DateOnly, "02-01-2006", "02/01/2006", "2006/01/02", "02.01.2006"}

// normalizeDate rewrites a recognised date as YYYY-MM-DD. Anything else is returned unchanged
// and left for validation to reject.
func normalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}

	return s
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "x", "draft":
		return true
	}

	v, _ := strconv.ParseBool(s)

	return v
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
