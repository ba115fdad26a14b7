package csvfile

import (
	"strings"
	"unicode"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// aliases maps normalised header names to the form field they fill.
var aliases = map[string]invoice.Field{
	"businessname":       invoice.FieldBusinessName,
	"business":           invoice.FieldBusinessName,
	"from":               invoice.FieldBusinessName,
	"currency":           invoice.FieldCurrency,
	"invoicenumber":      invoice.FieldInvoiceNumber,
	"invoiceno":          invoice.FieldInvoiceNumber,
	"invoice":            invoice.FieldInvoiceNumber,
	"number":             invoice.FieldInvoiceNumber,
	"clientname":         invoice.FieldClientName,
	"client":             invoice.FieldClientName,
	"customer":           invoice.FieldClientName,
	"billto":             invoice.FieldClientName,
	"invoicedate":        invoice.FieldInvoiceDate,
	"date":               invoice.FieldInvoiceDate,
	"duedate":            invoice.FieldDueDate,
	"due":                invoice.FieldDueDate,
	"servicedescription": invoice.FieldServiceDescription,
	"description":        invoice.FieldServiceDescription,
	"service":            invoice.FieldServiceDescription,
	"quantity":           invoice.FieldQuantity,
	"qty":                invoice.FieldQuantity,
	"rate":               invoice.FieldRate,
	"price":              invoice.FieldRate,
	"unitprice":          invoice.FieldRate,
	"taxrate":            invoice.FieldTaxRate,
	"tax":                invoice.FieldTaxRate,
	"vat":                invoice.FieldTaxRate,
	"additionalnotes":    invoice.FieldAdditionalNotes,
	"notes":              invoice.FieldAdditionalNotes,
	"watermark":          invoice.FieldWatermark,
	"draft":              invoice.FieldWatermark,
}

// normalize lowercases a header and drops everything but letters and digits, so
// "Invoice No.", "invoice_no" and "invoiceNo" all match.
func normalize(header string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// colIndex maps form fields to their index in a row.
type colIndex map[invoice.Field]int

// headerColumns returns the known columns of a row. The first column for a field wins.
func headerColumns(row []string) colIndex {
	cols := make(colIndex)

	for i, cell := range row {
		field, ok := aliases[normalize(cell)]
		if !ok {
			continue
		}

		if _, seen := cols[field]; !seen {
			cols[field] = i
		}
	}

	return cols
}
