package view

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/template"
	"github.com/MrJamesThe3rd/invoicer/internal/template/store"
)

var now = time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)

func validDraft() *invoice.Form {
	return &invoice.Form{
		BusinessName:       "Acme Studio",
		Currency:           "$",
		InvoiceNumber:      "INV-1",
		ClientName:         "Jane Doe",
		InvoiceDate:        "2024-01-10",
		ServiceDescription: "Design",
		Quantity:           "3",
		Rate:               "150",
		TaxRate:            "8",
	}
}

func TestFieldCheck(t *testing.T) {
	draft := validDraft()

	tests := []struct {
		name  string
		field invoice.Field
		value string
		want  string
	}{
		{"client present", invoice.FieldClientName, "Bob", ""},
		{"client blank", invoice.FieldClientName, "   ", "This field is required"},
		{"quantity text", invoice.FieldQuantity, "abc", "Please enter a valid number"},
		{"negative rate", invoice.FieldRate, "-1", "Value must not be negative"},
		{"european number", invoice.FieldRate, "1.234,56", ""},
		{"due date empty follows invoice date", invoice.FieldDueDate, "", ""},
		{"due before invoice", invoice.FieldDueDate, "2024-01-01", "Due date must be after invoice date"},
		{"bad invoice date", invoice.FieldInvoiceDate, "10/01/2024", "This field is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fieldCheck(draft, tt.field)(tt.value)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	assert.Equal(t, validDraft(), draft, "checks must not modify the draft")
}

func TestFieldCheck_SeesOtherFields(t *testing.T) {
	draft := validDraft()
	draft.DueDate = "2024-01-20"

	check := fieldCheck(draft, invoice.FieldInvoiceDate)

	assert.NoError(t, check("2024-01-15"))
	assert.Error(t, check("2024-02-01"))
}

func TestCompleteDueDate(t *testing.T) {
	f := validDraft()
	completeDueDate(f)
	assert.Equal(t, "2024-02-09", f.DueDate)

	f.DueDate = "2024-03-01"
	completeDueDate(f)
	assert.Equal(t, "2024-03-01", f.DueDate)
}

func TestCheckLogoPath(t *testing.T) {
	assert.NoError(t, checkLogoPath(""))

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	err := checkLogoPath(path)
	require.Error(t, err)
	assert.Equal(t, "Please upload a valid image file", err.Error())
}

func TestNewDraft(t *testing.T) {
	templates := template.NewService(store.NewMemory())

	draft, err := NewDraft(context.Background(), templates, template.DefaultSlot, now)
	require.NoError(t, err)
	assert.Equal(t, "$", draft.Currency)
	assert.Empty(t, draft.DueDate)
	assert.Equal(t, "2024-01-12", draft.InvoiceDate)
	assert.Regexp(t, `^INV-20240112-[0-9A-F]{4}$`, draft.InvoiceNumber)

	_, err = templates.Save(context.Background(), template.DefaultSlot, template.Template{
		BusinessName: "Acme Studio",
		Currency:     "EUR",
		TaxRate:      20,
	})
	require.NoError(t, err)

	draft, err = NewDraft(context.Background(), templates, template.DefaultSlot, now)
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio", draft.BusinessName)
	assert.Equal(t, "€", draft.Currency)
	assert.Equal(t, invoice.Raw("20"), draft.TaxRate)
}

func TestFormatTotals(t *testing.T) {
	assert.Equal(t, "Subtotal: $450.00\nTax (8%): $36.00\nTotal: $486.00", FormatTotals(*validDraft()))

	f := validDraft()
	f.Rate = "abc"
	assert.Contains(t, FormatTotals(*f), "Total: $NaN")
}

func TestFormatErrors(t *testing.T) {
	errs := invoice.Errors{
		invoice.FieldRate:       invoice.ReasonBelowMinimum,
		invoice.FieldClientName: invoice.ReasonRequired,
	}

	assert.Equal(t, "clientName: This field is required\nrate: Value must not be negative", FormatErrors(errs))
}
