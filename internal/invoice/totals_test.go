package invoice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name                        string
		quantity, rate, tax         float64
		wantSub, wantTax, wantTotal float64
	}{
		{name: "Example", quantity: 3, rate: 150, tax: 8, wantSub: 450, wantTax: 36, wantTotal: 486},
		{name: "NoTax", quantity: 2, rate: 99.5, tax: 0, wantSub: 199, wantTax: 0, wantTotal: 199},
		{name: "ZeroQuantity", quantity: 0, rate: 150, tax: 20, wantSub: 0, wantTax: 0, wantTotal: 0},
		{name: "Fractional", quantity: 1.5, rate: 40, tax: 12.5, wantSub: 60, wantTax: 7.5, wantTotal: 67.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.CalculateTotals(tt.quantity, tt.rate, tt.tax)

			assert.Equal(t, tt.wantSub, got.Subtotal)
			assert.Equal(t, tt.wantTax, got.Tax)
			assert.Equal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestCalculateTotals_NoRoundingBeforeTotal(t *testing.T) {
	q, r, tax := 7.0, 0.33, 7.25

	got := invoice.CalculateTotals(q, r, tax)

	assert.Equal(t, q*r, got.Subtotal)
	assert.Equal(t, q*r*tax/100, got.Tax)
	assert.Equal(t, got.Subtotal+got.Tax, got.Total)
}

func TestCalculateTotals_PropagatesNaN(t *testing.T) {
	got := invoice.CalculateTotals(math.NaN(), 150, 8)

	assert.True(t, math.IsNaN(got.Subtotal))
	assert.True(t, math.IsNaN(got.Tax))
	assert.True(t, math.IsNaN(got.Total))
	assert.Equal(t, "$NaN", invoice.FormatCurrency(got.Total, invoice.CurrencyDollar))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		currency invoice.Currency
		want     string
	}{
		{486, invoice.CurrencyDollar, "$486.00"},
		{1234.5, invoice.CurrencyEuro, "€1,234.50"},
		{0.125, invoice.CurrencyPound, "£0.13"},
		{1e6, "USD", "$1,000,000.00"},
		{-12, invoice.CurrencyDollar, "-$12.00"},
		{10, "CHF", "CHF10.00"},
		{math.Inf(1), invoice.CurrencyDollar, "$∞"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, invoice.FormatCurrency(tt.amount, tt.currency))
	}
}
