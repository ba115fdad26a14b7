package invoice

// Totals are never stored; they are recomputed from the inputs for every render.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// CalculateTotals performs no validation. Non-finite inputs propagate into the result as NaN
// and are rendered as such.
func CalculateTotals(quantity, rate, taxRatePercent float64) Totals {
	subtotal := quantity * rate
	tax := subtotal * taxRatePercent / 100

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
