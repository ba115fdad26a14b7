package invoice

import (
	"math"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type formattedTotals struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type totalsResponse struct {
	Subtotal  *float64        `json:"subtotal"`
	Tax       *float64        `json:"tax"`
	Total     *float64        `json:"total"`
	Formatted formattedTotals `json:"formatted"`
}

type validationResponse struct {
	Valid    bool                             `json:"valid"`
	Message  string                           `json:"message,omitempty"`
	Errors   map[invoice.Field]invoice.Reason `json:"errors,omitempty"`
	Messages map[invoice.Field]string         `json:"messages,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toAmount is nil for values JSON cannot carry; the formatted string still shows them.
func toAmount(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}

func toTotalsResponse(t invoice.Totals, c invoice.Currency) totalsResponse {
	return totalsResponse{
		Subtotal: toAmount(t.Subtotal),
		Tax:      toAmount(t.Tax),
		Total:    toAmount(t.Total),
		Formatted: formattedTotals{
			Subtotal: invoice.FormatCurrency(t.Subtotal, c),
			Tax:      invoice.FormatCurrency(t.Tax, c),
			Total:    invoice.FormatCurrency(t.Total, c),
		},
	}
}

func toValidationResponse(errs invoice.Errors) validationResponse {
	if errs.OK() {
		return validationResponse{Valid: true}
	}

	messages := make(map[invoice.Field]string, len(errs))
	for f, reason := range errs {
		messages[f] = reason.Message()
	}

	return validationResponse{
		Valid:    false,
		Message:  invoice.GenericPrompt,
		Errors:   errs,
		Messages: messages,
	}
}
