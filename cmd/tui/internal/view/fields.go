package view

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
)

// NewDraft starts a fresh invoice prefilled from the saved template. The due date is left
// empty so that it follows the invoice date until the user sets one.
func NewDraft(ctx context.Context, templates *template.Service, slot string, now time.Time) (*invoice.Form, error) {
	tpl, _, err := templates.Load(ctx, slot)

	f := invoice.NewForm(now)
	tpl.Prefill(&f)
	f.Currency = invoice.Currency(f.Currency).Symbol()
	f.DueDate = ""

	return &f, err
}

// completeDueDate fills an empty due date from the invoice date.
func completeDueDate(f *invoice.Form) {
	if strings.TrimSpace(f.DueDate) == "" {
		f.SetInvoiceDate(f.InvoiceDate)
	}
}

var setters = map[invoice.Field]func(*invoice.Form, string){
	invoice.FieldBusinessName:       func(f *invoice.Form, s string) { f.BusinessName = s },
	invoice.FieldInvoiceNumber:      func(f *invoice.Form, s string) { f.InvoiceNumber = s },
	invoice.FieldClientName:         func(f *invoice.Form, s string) { f.ClientName = s },
	invoice.FieldInvoiceDate:        func(f *invoice.Form, s string) { f.InvoiceDate = s },
	invoice.FieldDueDate:            func(f *invoice.Form, s string) { f.DueDate = s },
	invoice.FieldServiceDescription: func(f *invoice.Form, s string) { f.ServiceDescription = s },
	invoice.FieldQuantity:           func(f *invoice.Form, s string) { f.Quantity = invoice.Raw(s) },
	invoice.FieldRate:               func(f *invoice.Form, s string) { f.Rate = invoice.Raw(s) },
	invoice.FieldTaxRate:            func(f *invoice.Form, s string) { f.TaxRate = invoice.Raw(s) },
}

// fieldCheck validates one field as it is typed. The candidate value is tried on a copy of the
// draft so cross-field rules see the rest of the form.
func fieldCheck(draft *invoice.Form, field invoice.Field) func(string) error {
	set := setters[field]

	return func(s string) error {
		f := *draft
		set(&f, s)
		completeDueDate(&f)

		in, err := f.Input()
		if err != nil {
			return nil
		}

		if reason := invoice.ValidateField(in, field); reason != "" {
			return errors.New(reason.Message())
		}

		return nil
	}
}

// checkLogoPath accepts an empty path, which keeps the current logo.
func checkLogoPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	if _, err := logo.ReadFile(strings.TrimSpace(path)); err != nil {
		return errors.New(logo.UserMessage(err))
	}

	return nil
}

// applyLogo loads the logo at path into the form. An empty path leaves the form untouched.
func applyLogo(f *invoice.Form, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	img, err := logo.ReadFile(path)
	if err != nil {
		return err
	}

	f.LogoDataURL = img.DataURL()

	return nil
}
