// Package polyfmt renders numeric polynomials and fractions as plain text
// with Unicode superscript exponents.
package polyfmt

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ZeroTolerance is the magnitude below which a coefficient is skipped.
const ZeroTolerance = 1e-12

// Divider is the rune repeated to draw a fraction bar.
const Divider = "―"

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'-': '⁻', '+': '⁺',
}

// Superscript writes n with superscript digits and sign.
func Superscript(n int) string {
	var b strings.Builder
	for _, r := range strconv.Itoa(n) {
		if sup, ok := superscripts[r]; ok {
			b.WriteRune(sup)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var cleanup = strings.NewReplacer(
	". ", " ",
	".+", "+",
	".-", "-",
	".s", "s",
)

// Polynomial renders coefficients given highest power first, e.g.
// [2, 0, -1] as "2s² - 1". An all-zero polynomial renders as "0".
func Polynomial(coefs []float64) string {
	deg := len(coefs) - 1

	var terms []string
	for i, c := range coefs {
		if math.Abs(c) < ZeroTolerance {
			continue
		}

		pow := deg - i
		var sym string
		switch {
		case pow > 1:
			sym = "s" + Superscript(pow)
		case pow == 1:
			sym = "s"
		}

		sign := "+ "
		if c < 0 {
			sign = "- "
		}
		term := sign + strconv.FormatFloat(math.Abs(c), 'g', 6, 64)
		if sym != "" {
			term += "." + sym
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return "0"
	}

	out := strings.Join(terms, " ")
	switch {
	case strings.HasPrefix(out, "+ "):
		out = out[2:]
	case strings.HasPrefix(out, "- "):
		out = "-" + out[2:]
	}
	return strings.TrimSpace(cleanup.Replace(out))
}

// Fraction renders num over den with a bar as wide as the longer line.
func Fraction(num, den []float64) string {
	n, d := Polynomial(num), Polynomial(den)
	width := max(utf8.RuneCountInString(n), utf8.RuneCountInString(d))
	return n + "\n" + strings.Repeat(Divider, width) + "\n" + d
}
