package chem

import "strings"

// subscripts maps ASCII digits to their Unicode subscript forms.
var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
}

// SubscriptDigits renders the digits of a molecular formula as Unicode
// subscripts, so C21H30O2 displays as C₂₁H₃₀O₂.
func SubscriptDigits(formula string) string {
	var b strings.Builder
	b.Grow(len(formula))
	for _, r := range formula {
		if sub, ok := subscripts[r]; ok {
			r = sub
		}
		b.WriteRune(r)
	}
	return b.String()
}
