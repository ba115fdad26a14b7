package template

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

// Template is the reusable part of an invoice: who is billing and on what terms.
type Template struct {
	BusinessName    string
	Currency        invoice.Currency
	TaxRate         float64
	AdditionalNotes string
	Logo            *logo.Image
	SavedAt         time.Time
}

// Defaults is what an empty or unreadable slot resolves to.
func Defaults() Template {
	return Template{Currency: invoice.DefaultCurrency}
}

func FromInput(in invoice.Input) Template {
	return Template{
		BusinessName:    in.BusinessName,
		Currency:        in.Currency,
		TaxRate:         finiteOrZero(in.TaxRatePercent),
		AdditionalNotes: in.AdditionalNotes,
		Logo:            in.Logo,
	}
}

// FromForm takes the template fields from a form as typed. An unparseable tax rate is saved as 0.
func FromForm(f invoice.Form) (Template, error) {
	t := Template{
		BusinessName:    f.BusinessName,
		Currency:        invoice.Currency(f.Currency),
		TaxRate:         finiteOrZero(invoice.ParseNumber(string(f.TaxRate))),
		AdditionalNotes: f.AdditionalNotes,
	}

	if strings.TrimSpace(f.LogoDataURL) != "" {
		img, err := logo.ParseDataURL(f.LogoDataURL)
		if err != nil {
			return t, fmt.Errorf("parsing logo: %w", err)
		}

		t.Logo = img
	}

	return t, nil
}

// Apply prefills an invoice with the template values.
func (t Template) Apply(in *invoice.Input) {
	in.BusinessName = t.BusinessName
	in.Currency = t.Currency
	in.TaxRatePercent = t.TaxRate
	in.AdditionalNotes = t.AdditionalNotes
	in.Logo = t.Logo
}

// Prefill is Apply for a form that has not been parsed yet.
func (t Template) Prefill(f *invoice.Form) {
	f.BusinessName = t.BusinessName
	f.Currency = string(t.Currency)
	f.TaxRate = invoice.Raw(strconv.FormatFloat(t.TaxRate, 'f', -1, 64))
	f.AdditionalNotes = t.AdditionalNotes
	f.LogoDataURL = ""

	if t.Logo != nil {
		f.LogoDataURL = t.Logo.DataURL()
	}
}

// record is the persisted form of a Template.
type record struct {
	BusinessName    string    `json:"businessName"`
	Currency        string    `json:"currency"`
	TaxRate         taxRate   `json:"taxRate"`
	AdditionalNotes string    `json:"additionalNotes"`
	LogoDataURL     string    `json:"logoDataUrl,omitempty"`
	SavedAt         time.Time `json:"savedAt"`
}

// taxRate is stored as a number. Older records kept the raw form string, so strings are read too.
type taxRate float64

func (r *taxRate) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case float64:
		*r = taxRate(x)
	case string:
		*r = taxRate(finiteOrZero(invoice.ParseNumber(x)))
	case nil:
		*r = 0
	default:
		return fmt.Errorf("tax rate must be a number, got %T", v)
	}

	return nil
}

func encode(t Template) ([]byte, error) {
	rec := record{
		BusinessName:    t.BusinessName,
		Currency:        string(t.Currency),
		TaxRate:         taxRate(finiteOrZero(t.TaxRate)),
		AdditionalNotes: t.AdditionalNotes,
		SavedAt:         t.SavedAt,
	}

	if t.Logo != nil {
		rec.LogoDataURL = t.Logo.DataURL()
	}

	return json.Marshal(rec)
}

// decode reads a stored record. Missing fields fall back to Defaults.
func decode(data []byte) (Template, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Template{}, fmt.Errorf("decoding template: %w", err)
	}

	t := Defaults()
	t.BusinessName = rec.BusinessName
	t.TaxRate = float64(rec.TaxRate)
	t.AdditionalNotes = rec.AdditionalNotes
	t.SavedAt = rec.SavedAt

	if strings.TrimSpace(rec.Currency) != "" {
		t.Currency = invoice.Currency(rec.Currency)
	}

	if rec.LogoDataURL != "" {
		img, err := logo.ParseDataURL(rec.LogoDataURL)
		if err != nil {
			slog.Debug("dropping unreadable template logo", "error", err)
		} else {
			t.Logo = img
		}
	}

	return t, nil
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}
