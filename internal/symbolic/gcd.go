package symbolic

import "math"

// Univariate helpers over ascending coefficient slices: c[i] multiplies s^i.

const gcdTolerance = 1e-9

func degree(c []float64) int {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i] != 0 {
			return i
		}
	}
	return -1
}

func maxAbs(c []float64) float64 {
	m := 0.0
	for _, v := range c {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// trim zeroes coefficients at or below tol and drops trailing zeros.
func trim(c []float64, tol float64) []float64 {
	out := append([]float64(nil), c...)
	for i, v := range out {
		if math.Abs(v) <= tol {
			out[i] = 0
		}
	}
	return out[:degree(out)+1]
}

func monic(c []float64) []float64 {
	d := degree(c)
	if d < 0 {
		return nil
	}
	lead := c[d]
	out := make([]float64, d+1)
	for i := range out {
		out[i] = c[i] / lead
	}
	return out
}

// divmod returns quotient and remainder of a / b. b must be non-zero.
func divmod(a, b []float64) (q, r []float64) {
	db := degree(b)
	r = append([]float64(nil), a...)
	da := degree(r)
	if da < db {
		return nil, r
	}
	q = make([]float64, da-db+1)
	for k := da - db; k >= 0; k-- {
		coef := r[k+db] / b[db]
		q[k] = coef
		for j := 0; j <= db; j++ {
			r[k+j] -= coef * b[j]
		}
		r[k+db] = 0
	}
	return q, r[:degree(r)+1]
}

// gcd is Euclid's algorithm with remainders treated as zero once they fall
// below gcdTolerance relative to the divisor scale. The result is monic.
func gcd(a, b []float64) []float64 {
	a = monic(trim(a, 0))
	b = monic(trim(b, 0))
	for degree(b) >= 0 {
		_, r := divmod(a, b)
		r = trim(r, gcdTolerance*math.Max(1, maxAbs(a)))
		a, b = b, monic(r)
	}
	return a
}

// divides reports whether g divides c with a negligible remainder, and
// returns the quotient.
func divides(c, g []float64) ([]float64, bool) {
	q, r := divmod(c, g)
	if maxAbs(r) > gcdTolerance*math.Max(1, maxAbs(c)) {
		return nil, false
	}
	return q, true
}
