package encoding

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// fallbacks spell out symbols the core fonts cannot draw.
var fallbacks = map[rune]string{
	'₹': "Rs.",
	'₽': "RUB ",
	'₩': "KRW ",
	'₪': "ILS ",
	'₺': "TRY ",
}

// ToWindows1252 converts UTF-8 text into the single-byte encoding used by the PDF core fonts.
// Known currency symbols are spelled out; other runes outside Windows-1252 become '?' rather
// than failing the whole document.
func ToWindows1252(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			if alt, found := fallbacks[r]; found {
				sb.WriteString(alt)
				continue
			}

			b = '?'
		}

		sb.WriteByte(b)
	}

	return sb.String()
}

// FromWindows1252 is the inverse of ToWindows1252.
func FromWindows1252(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		sb.WriteRune(charmap.Windows1252.DecodeByte(s[i]))
	}

	return sb.String()
}
