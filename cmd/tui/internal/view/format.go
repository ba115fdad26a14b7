package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

const storeTimeout = 5 * time.Second

// StoreCtx returns a context with a standard timeout for template store operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// FormatTotals renders the totals block shown under the invoice form.
func FormatTotals(f invoice.Form) string {
	var (
		currency = invoice.Currency(f.Currency)
		tax      = invoice.ParseNumber(string(f.TaxRate))
		totals   = invoice.CalculateTotals(
			invoice.ParseNumber(string(f.Quantity)),
			invoice.ParseNumber(string(f.Rate)),
			tax,
		)
	)

	return fmt.Sprintf("Subtotal: %s\nTax (%s%%): %s\nTotal: %s",
		invoice.FormatCurrency(totals.Subtotal, currency),
		strconv.FormatFloat(tax, 'f', -1, 64),
		invoice.FormatCurrency(totals.Tax, currency),
		invoice.FormatCurrency(totals.Total, currency),
	)
}

// FormatErrors lists every failing field with its message, one per line.
func FormatErrors(errs invoice.Errors) string {
	lines := make([]string, 0, len(errs))
	for _, f := range errs.Fields() {
		lines = append(lines, fmt.Sprintf("%s: %s", f, errs[f].Message()))
	}

	return strings.Join(lines, "\n")
}
