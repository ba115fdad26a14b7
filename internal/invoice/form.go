package invoice

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

// Raw is a form value as the user typed it. When decoding JSON, numbers are accepted as well
// as strings.
type Raw string

func (r *Raw) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))

	switch {
	case s == "null":
		*r = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}

		*r = Raw(str)
	default:
		*r = Raw(s)
	}

	return nil
}

// Form holds the raw values of the invoice form, before parsing.
type Form struct {
	BusinessName       string `json:"businessName"`
	Currency           string `json:"currency"`
	InvoiceNumber      string `json:"invoiceNumber"`
	ClientName         string `json:"clientName"`
	InvoiceDate        string `json:"invoiceDate"`
	DueDate            string `json:"dueDate"`
	ServiceDescription string `json:"serviceDescription"`
	Quantity           Raw    `json:"quantity"`
	Rate               Raw    `json:"rate"`
	TaxRate            Raw    `json:"taxRate"`
	AdditionalNotes    string `json:"additionalNotes"`
	Watermark          bool   `json:"watermark"`
	LogoDataURL        string `json:"logoDataUrl,omitempty"`
}

// NewForm returns a freshly initialised form: today's date, a due date DueDays later and a
// generated invoice number.
func NewForm(now time.Time) Form {
	return Form{
		Currency:      string(DefaultCurrency),
		InvoiceNumber: NewInvoiceNumber(now),
		InvoiceDate:   now.Format(time.DateOnly),
		DueDate:       DefaultDueDate(now).Format(time.DateOnly),
		Quantity:      "1",
		Rate:          "0",
		TaxRate:       "0",
	}
}

// NewInvoiceNumber returns a number of the form INV-YYYYMMDD-XXXX.
func NewInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// SetInvoiceDate updates the invoice date and moves the due date along with it.
func (f *Form) SetInvoiceDate(date string) {
	f.InvoiceDate = date

	if t := ParseDate(date); !t.IsZero() {
		f.DueDate = DefaultDueDate(t).Format(time.DateOnly)
	}
}

// Overlay copies every non-empty value of other onto f.
func (f *Form) Overlay(other Form) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}

	set(&f.BusinessName, other.BusinessName)
	set(&f.Currency, other.Currency)
	set(&f.InvoiceNumber, other.InvoiceNumber)
	set(&f.ClientName, other.ClientName)
	set(&f.InvoiceDate, other.InvoiceDate)
	set(&f.DueDate, other.DueDate)
	set(&f.ServiceDescription, other.ServiceDescription)
	set((*string)(&f.Quantity), string(other.Quantity))
	set((*string)(&f.Rate), string(other.Rate))
	set((*string)(&f.TaxRate), string(other.TaxRate))
	set(&f.AdditionalNotes, other.AdditionalNotes)
	set(&f.LogoDataURL, other.LogoDataURL)

	if other.Watermark {
		f.Watermark = true
	}
}

// Input parses the form. Unparseable numbers become NaN and unparseable dates become the zero
// time, both of which Validate reports. Only a malformed logo is an error here.
func (f Form) Input() (Input, error) {
	in := Input{
		BusinessName:       f.BusinessName,
		Currency:           Currency(f.Currency),
		InvoiceNumber:      f.InvoiceNumber,
		ClientName:         f.ClientName,
		InvoiceDate:        ParseDate(f.InvoiceDate),
		DueDate:            ParseDate(f.DueDate),
		ServiceDescription: f.ServiceDescription,
		Quantity:           ParseNumber(string(f.Quantity)),
		Rate:               ParseNumber(string(f.Rate)),
		TaxRatePercent:     ParseNumber(string(f.TaxRate)),
		AdditionalNotes:    f.AdditionalNotes,
		Watermark:          f.Watermark,
	}

	if strings.TrimSpace(f.LogoDataURL) != "" {
		img, err := logo.ParseDataURL(f.LogoDataURL)
		if err != nil {
			return in, fmt.Errorf("parsing logo: %w", err)
		}

		in.Logo = img
	}

	return in, nil
}

// europeanNumber matches a decimal comma, optionally with '.' thousand groups.
var europeanNumber = regexp.MustCompile(`^-?(\d{1,3}(?:\.\d{3})+|\d+),(\d+)$`)

// ParseNumber parses a numeric field. Both "1234.56" and the European "1.234,56" are
// understood; anything else yields NaN. "1,234" is ambiguous between the two notations and
// is rejected, as is US grouping such as "1,234.56".
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	m := europeanNumber.FindStringSubmatch(s)
	if m == nil {
		return math.NaN()
	}

	if !strings.Contains(m[1], ".") && len(m[2]) == 3 {
		return math.NaN()
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", "."))
	if err != nil {
		return math.NaN()
	}

	return d.InexactFloat64()
}

// ParseDate parses a YYYY-MM-DD date; anything else yields the zero time.
func ParseDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}

	return t
}
