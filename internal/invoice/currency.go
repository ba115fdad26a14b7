package invoice

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the currency picked on the form. It is usually a symbol; ISO codes are accepted
// and mapped to their symbol for display.
type Currency string

const (
	CurrencyDollar Currency = "$"
	CurrencyEuro   Currency = "€"
	CurrencyPound  Currency = "£"
	CurrencyYen    Currency = "¥"
	CurrencyRupee  Currency = "₹"

	DefaultCurrency = CurrencyDollar
)

var isoSymbols = map[string]Currency{
	"USD": CurrencyDollar,
	"EUR": CurrencyEuro,
	"GBP": CurrencyPound,
	"JPY": CurrencyYen,
	"INR": CurrencyRupee,
}

// Currencies lists the choices offered by the form front ends.
func Currencies() []Currency {
	return []Currency{CurrencyDollar, CurrencyEuro, CurrencyPound, CurrencyYen, CurrencyRupee}
}

func (c Currency) Symbol() string {
	trimmed := strings.TrimSpace(string(c))
	if sym, ok := isoSymbols[strings.ToUpper(trimmed)]; ok {
		return string(sym)
	}

	return trimmed
}

var printer = message.NewPrinter(language.English)

// FormatCurrency renders an amount with the currency symbol, rounded half away from zero to
// two decimals and grouped by thousands.
func FormatCurrency(amount float64, c Currency) string {
	sym := c.Symbol()

	switch {
	case math.IsNaN(amount):
		return sym + "NaN"
	case math.IsInf(amount, 1):
		return sym + "∞"
	case math.IsInf(amount, -1):
		return "-" + sym + "∞"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	rounded := decimal.NewFromFloat(amount).Round(2).InexactFloat64()

	return sign + sym + printer.Sprint(number.Decimal(rounded, number.Scale(2)))
}
