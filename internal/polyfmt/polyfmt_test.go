package polyfmt

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPolynomial(t *testing.T) {
	tests := []struct {
		name  string
		coefs []float64
		want  string
	}{
		{"constant", []float64{1}, "1"},
		{"first order", []float64{2, 1}, "2s + 1"},
		{"unit slope", []float64{1, 0}, "1s"},
		{"second order", []float64{1, 3, 2}, "1s² + 3s + 2"},
		{"negative lead", []float64{-2, 0, 1}, "-2s² + 1"},
		{"negative tail", []float64{4, -0.5}, "4s - 0.5"},
		{"high degree", []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 7}, "1s¹¹ + 7"},
		{"compact format", []float64{0.1234567, 100000, 1e-5}, "0.123457s² + 100000s + 1e-05"},
		{"large", []float64{2.5e7, 0}, "2.5e+07s"},
		{"near zero skipped", []float64{1e-13, 3, 1}, "3s + 1"},
		{"all zero", []float64{0, 1e-13, -1e-14}, "0"},
		{"empty", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Polynomial(tt.coefs); got != tt.want {
				t.Errorf("Polynomial(%v) = %q, want %q", tt.coefs, got, tt.want)
			}
		})
	}
}

func TestFraction(t *testing.T) {
	got := Fraction([]float64{1}, []float64{2, 1})
	want := "1\n――――――\n2s + 1"
	if got != want {
		t.Errorf("Fraction = %q, want %q", got, want)
	}

	lines := strings.Split(Fraction([]float64{3, 2, 1}, []float64{1}), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if utf8.RuneCountInString(lines[1]) != utf8.RuneCountInString(lines[0]) {
		t.Errorf("divider %q does not match numerator %q", lines[1], lines[0])
	}
	if strings.Trim(lines[1], Divider) != "" {
		t.Errorf("divider contains other runes: %q", lines[1])
	}
}

func TestSuperscript(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "⁰"},
		{2, "²"},
		{10, "¹⁰"},
		{-3, "⁻³"},
		{1234567890, "¹²³⁴⁵⁶⁷⁸⁹⁰"},
	}
	for _, tt := range tests {
		if got := Superscript(tt.in); got != tt.want {
			t.Errorf("Superscript(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
