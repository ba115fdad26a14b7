package invoice

import (
	"regexp"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

// Input is everything needed to render one invoice. It is request scoped: the logo travels
// with the rest of the values instead of living in shared state.
type Input struct {
	BusinessName       string    `json:"businessName" validate:"notblank"`
	Currency           Currency  `json:"currency" validate:"notblank"`
	InvoiceNumber      string    `json:"invoiceNumber" validate:"notblank"`
	ClientName         string    `json:"clientName" validate:"notblank"`
	InvoiceDate        time.Time `json:"invoiceDate" validate:"required"`
	DueDate            time.Time `json:"dueDate" validate:"required,gtefield=InvoiceDate"`
	ServiceDescription string    `json:"serviceDescription" validate:"notblank"`
	Quantity           float64   `json:"quantity" validate:"finite,min=0"`
	Rate               float64   `json:"rate" validate:"finite,min=0"`
	TaxRatePercent     float64   `json:"taxRate" validate:"finite,min=0"`
	AdditionalNotes    string    `json:"additionalNotes"`
	Watermark          bool      `json:"watermark"`

	// Logo is optional and checked against the upload constraint when present.
	Logo *logo.Image `json:"-" validate:"-"`
}

// Totals derives the invoice totals from the current values.
func (in Input) Totals() Totals {
	return CalculateTotals(in.Quantity, in.Rate, in.TaxRatePercent)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName is the download name: Invoice_{number}_{client with whitespace runs as underscores}.pdf.
func (in Input) FileName() string {
	return "Invoice_" + in.InvoiceNumber + "_" + whitespaceRun.ReplaceAllString(in.ClientName, "_") + ".pdf"
}

// DueDays is the payment term applied when a due date is derived from the invoice date.
const DueDays = 30

// DefaultDueDate returns the due date suggested for an invoice date.
func DefaultDueDate(invoiceDate time.Time) time.Time {
	return invoiceDate.AddDate(0, 0, DueDays)
}

const displayDateLayout = "January 2, 2006"

// FormatDisplayDate renders a date the way it is printed on the document.
func FormatDisplayDate(t time.Time) string {
	return t.Format(displayDateLayout)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
