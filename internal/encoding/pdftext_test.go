package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/encoding"
)

func TestToWindows1252(t *testing.T) {
	got := encoding.ToWindows1252("Café €12")

	assert.Equal(t, []byte{'C', 'a', 'f', 0xE9, ' ', 0x80, '1', '2'}, []byte(got))
	assert.Equal(t, "Café €12", encoding.FromWindows1252(got))
}

func TestToWindows1252_ReplacesUnsupported(t *testing.T) {
	got := encoding.ToWindows1252("漢500")

	assert.Equal(t, "?500", got)
}

func TestToWindows1252_SpellsOutCurrencySymbols(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "₹150.00", want: "Rs.150.00"},
		{in: "Total: ₹1,234.00", want: "Total: Rs.1,234.00"},
		{in: "₩500", want: "KRW 500"},
		{in: "$150.00", want: "$150.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, encoding.ToWindows1252(tt.in))
		})
	}
}
