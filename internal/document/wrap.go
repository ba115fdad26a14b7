package document

import "strings"

// wrap breaks s into lines no wider than width, as measured by measure. Words are kept whole
// unless a single word is wider than the line, in which case it is broken between characters.
// Explicit newlines always start a new line.
func wrap(s string, width float64, measure func(string) float64) []string {
	var lines []string

	for _, paragraph := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""

		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}

			if measure(candidate) <= width {
				current = candidate
				continue
			}

			if current != "" {
				lines = append(lines, current)
			}

			current = word

			for measure(current) > width {
				head, tail := breakWord(current, width, measure)
				lines = append(lines, head)
				current = tail
			}
		}

		lines = append(lines, current)
	}

	return lines
}

// breakWord returns the longest prefix of word that fits in width (at least one rune) and the rest.
func breakWord(word string, width float64, measure func(string) float64) (string, string) {
	runes := []rune(word)

	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}

	return string(runes[:n]), string(runes[n:])
}
