package symbolic

import (
	"strconv"
	"strings"
)

// LaTeX renders the expression as \frac{num}{den}, or the numerator alone
// when the denominator is 1. Terms are ordered by descending power of s.
func (e Expr) LaTeX() string {
	if e.num.isZero() {
		return "0"
	}
	num := e.latexPoly(e.num)
	if e.isUnitDen() {
		return num
	}
	return `\frac{` + num + `}{` + e.latexPoly(e.den) + `}`
}

func (e Expr) String() string {
	if e.num.isZero() {
		return "0"
	}
	num := e.plainPoly(e.num)
	if e.isUnitDen() {
		return num
	}
	return "(" + num + ")/(" + e.plainPoly(e.den) + ")"
}

func (e Expr) isUnitDen() bool {
	c, ok := e.den[mono{}]
	return ok && c == 1 && len(e.den) == 1
}

func (e Expr) latexPoly(p poly) string {
	var b strings.Builder
	for i, m := range p.monos() {
		c := p[m]
		writeSign(&b, i, c)

		var parts []string
		switch {
		case m.S == 1:
			parts = append(parts, e.v.name)
		case m.S > 1:
			parts = append(parts, e.v.name+"^{"+strconv.Itoa(m.S)+"}")
		}
		if m.E > 0 {
			parts = append(parts, "e^{- "+latexDelay(float64(m.E)*e.delay, e.v.name)+"}")
		}

		mag := abs(c)
		if len(parts) == 0 || mag != 1 {
			parts = append([]string{latexNumber(mag)}, parts...)
		}
		b.WriteString(strings.Join(parts, " "))
	}
	return b.String()
}

func (e Expr) plainPoly(p poly) string {
	var b strings.Builder
	for i, m := range p.monos() {
		c := p[m]
		writeSign(&b, i, c)

		var parts []string
		switch {
		case m.S == 1:
			parts = append(parts, e.v.name)
		case m.S > 1:
			parts = append(parts, e.v.name+"^"+strconv.Itoa(m.S))
		}
		if m.E > 0 {
			arg := e.v.name
			if d := float64(m.E) * e.delay; d != 1 {
				arg = formatNumber(d) + "*" + arg
			}
			parts = append(parts, "exp(-"+arg+")")
		}

		mag := abs(c)
		if len(parts) == 0 || mag != 1 {
			parts = append([]string{formatNumber(mag)}, parts...)
		}
		b.WriteString(strings.Join(parts, "*"))
	}
	return b.String()
}

// latexDelay writes the exponent magnitude d·s, dropping a unit d.
func latexDelay(d float64, name string) string {
	if d == 1 {
		return name
	}
	return latexNumber(d) + " " + name
}

func writeSign(b *strings.Builder, i int, c float64) {
	switch {
	case i == 0 && c < 0:
		b.WriteString("- ")
	case i > 0 && c < 0:
		b.WriteString(" - ")
	case i > 0:
		b.WriteString(" + ")
	}
}

func abs(c float64) float64 {
	if c < 0 {
		return -c
	}
	return c
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// latexNumber writes exponent notation as m \cdot 10^{k}.
func latexNumber(x float64) string {
	s := formatNumber(x)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	k, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mant + ` \cdot 10^{` + strconv.Itoa(k) + `}`
}
