package symbolic

import (
	"math"
	"sort"
)

// mono is s^S · D^E.
type mono struct {
	S, E int
}

// less orders monomials by descending power of s, then of D.
func (m mono) less(o mono) bool {
	if m.S != o.S {
		return m.S > o.S
	}
	return m.E > o.E
}

// poly maps monomials to non-zero coefficients. Operations never mutate
// their receivers.
type poly map[mono]float64

func constPoly(c float64) poly {
	p := poly{}
	if c != 0 {
		p[mono{}] = c
	}
	return p
}

func (p poly) monos() []mono {
	ms := make([]mono, 0, len(p))
	for m := range p {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].less(ms[j]) })
	return ms
}

func (p poly) isZero() bool { return len(p) == 0 }

func (p poly) add(q poly) poly {
	out := poly{}
	for _, m := range p.monos() {
		out[m] = p[m]
	}
	for _, m := range q.monos() {
		out[m] += q[m]
		if out[m] == 0 {
			delete(out, m)
		}
	}
	return out
}

func (p poly) mul(q poly) poly {
	out := poly{}
	for _, a := range p.monos() {
		for _, b := range q.monos() {
			m := mono{a.S + b.S, a.E + b.E}
			out[m] += p[a] * q[b]
		}
	}
	for m, c := range out {
		if c == 0 {
			delete(out, m)
		}
	}
	return out
}

func (p poly) scale(k float64) poly {
	out := poly{}
	if k == 0 {
		return out
	}
	for m, c := range p {
		out[m] = c * k
	}
	return out
}

func (p poly) hasDelay() bool {
	for m := range p {
		if m.E > 0 {
			return true
		}
	}
	return false
}

func (p poly) maxAbs() float64 {
	max := 0.0
	for _, c := range p {
		max = math.Max(max, math.Abs(c))
	}
	return max
}

func (p poly) finite() bool {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// prune drops coefficients with magnitude at or below tol.
func (p poly) prune(tol float64) poly {
	out := poly{}
	for m, c := range p {
		if math.Abs(c) > tol {
			out[m] = c
		}
	}
	return out
}

// shift divides by s^ds · D^de. Callers guarantee every term has at least
// those powers.
func (p poly) shift(ds, de int) poly {
	out := poly{}
	for m, c := range p {
		out[mono{m.S - ds, m.E - de}] = c
	}
	return out
}

func (p poly) eval(s, d complex128) complex128 {
	var acc complex128
	for _, m := range p.monos() {
		acc += complex(p[m], 0) * ipow(s, m.S) * ipow(d, m.E)
	}
	return acc
}

func ipow(x complex128, n int) complex128 {
	r := complex(1, 0)
	for ; n > 0; n-- {
		r *= x
	}
	return r
}

// slices splits p by power of D into univariate polynomials in s with
// ascending coefficients.
func (p poly) slices() map[int][]float64 {
	out := map[int][]float64{}
	for m, c := range p {
		sl := out[m.E]
		for len(sl) <= m.S {
			sl = append(sl, 0)
		}
		sl[m.S] = c
		out[m.E] = sl
	}
	return out
}

func fromSlices(sl map[int][]float64) poly {
	out := poly{}
	for e, coefs := range sl {
		for s, c := range coefs {
			if c != 0 {
				out[mono{s, e}] = c
			}
		}
	}
	return out
}

// leading returns the coefficient of the first monomial in display order.
func (p poly) leading() float64 {
	ms := p.monos()
	if len(ms) == 0 {
		return 0
	}
	return p[ms[0]]
}
