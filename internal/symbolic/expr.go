package symbolic

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

const pruneTolerance = 1e-12

// Var is a frequency variable. Two expressions combine only when they were
// built over equal variables.
type Var struct {
	name string
}

// NewVar returns a frequency variable; an empty name means "s".
func NewVar(name string) Var {
	if name == "" {
		name = "s"
	}
	return Var{name: name}
}

func (v Var) Name() string { return v.name }

// Expr returns the variable itself as an expression.
func (v Var) Expr() Expr {
	return Expr{v: v, num: poly{{S: 1}: 1}, den: constPoly(1)}
}

// Expr is a rational expression num/den over s and D = e^(-delay·s).
// The zero Expr is not valid; build expressions with Const, Delay or
// Var.Expr.
type Expr struct {
	v     Var
	delay float64
	num   poly
	den   poly
}

// Const returns the constant c over v.
func Const(v Var, c float64) Expr {
	return Expr{v: v, num: constPoly(c), den: constPoly(1)}
}

// Delay returns e^(-l·s). A zero delay is the constant 1.
func Delay(v Var, l float64) Expr {
	if l == 0 {
		return Const(v, 1)
	}
	return Expr{v: v, delay: l, num: poly{{E: 1}: 1}, den: constPoly(1)}
}

func (e Expr) Var() Var { return e.v }

// DelayTime returns L of the e^(-L·s) factor, or 0 when the expression has
// no delay term.
func (e Expr) DelayTime() float64 {
	if !e.hasDelay() {
		return 0
	}
	return e.delay
}

func (e Expr) IsZero() bool { return e.num.isZero() }

func (e Expr) hasDelay() bool {
	return e.num.hasDelay() || e.den.hasDelay()
}

func (e Expr) compat(o Expr) (float64, error) {
	if e.v != o.v {
		return 0, fmt.Errorf("%w: %q and %q", ErrVarMismatch, e.v.name, o.v.name)
	}
	ed, od := e.hasDelay(), o.hasDelay()
	switch {
	case ed && od && e.delay != o.delay:
		return 0, fmt.Errorf("%w: %g and %g", ErrDelayMismatch, e.delay, o.delay)
	case ed:
		return e.delay, nil
	case od:
		return o.delay, nil
	}
	return 0, nil
}

func (e Expr) Add(o Expr) (Expr, error) {
	d, err := e.compat(o)
	if err != nil {
		return Expr{}, err
	}
	return e.add(o, d), nil
}

func (e Expr) Sub(o Expr) (Expr, error) {
	return e.Add(o.Neg())
}

func (e Expr) Mul(o Expr) (Expr, error) {
	d, err := e.compat(o)
	if err != nil {
		return Expr{}, err
	}
	return e.mul(o, d), nil
}

func (e Expr) Div(o Expr) (Expr, error) {
	d, err := e.compat(o)
	if err != nil {
		return Expr{}, err
	}
	if o.num.isZero() {
		return Expr{}, ErrDivideByZero
	}
	return e.div(o, d), nil
}

func (e Expr) Neg() Expr {
	return Expr{v: e.v, delay: e.delay, num: e.num.scale(-1), den: e.den}
}

func (e Expr) add(o Expr, delay float64) Expr {
	return Expr{
		v:     e.v,
		delay: delay,
		num:   e.num.mul(o.den).add(o.num.mul(e.den)),
		den:   e.den.mul(o.den),
	}
}

func (e Expr) mul(o Expr, delay float64) Expr {
	return Expr{v: e.v, delay: delay, num: e.num.mul(o.num), den: e.den.mul(o.den)}
}

func (e Expr) div(o Expr, delay float64) Expr {
	return Expr{v: e.v, delay: delay, num: e.num.mul(o.den), den: e.den.mul(o.num)}
}

// Eval substitutes s and returns the complex value of the expression.
func (e Expr) Eval(s complex128) complex128 {
	d := cmplx.Exp(complex(-e.delay, 0) * s)
	return e.num.eval(s, d) / e.den.eval(s, d)
}

// Simplify brings the expression to a reduced form: negligible coefficients
// are dropped, the common monomial s^a·D^b is cancelled, the greatest common
// polynomial factor in s shared by every D-power slice is divided out, and
// the denominator's leading coefficient is made positive.
func (e Expr) Simplify() (Expr, error) {
	if !e.num.finite() || !e.den.finite() {
		return Expr{}, ErrNonFinite
	}

	tol := pruneTolerance * math.Max(e.num.maxAbs(), e.den.maxAbs())
	num, den := e.num.prune(tol), e.den.prune(tol)
	if den.isZero() {
		return Expr{}, ErrDivideByZero
	}
	if num.isZero() {
		return Const(e.v, 0), nil
	}

	num, den = cancelMonomial(num, den)
	num, den = cancelCommonFactor(num, den)

	// Division by the numeric GCD can leave round-off residue.
	tol = pruneTolerance * math.Max(num.maxAbs(), den.maxAbs())
	num, den = cancelMonomial(num.prune(tol), den.prune(tol))

	if c, ok := den[mono{}]; ok && len(den) == 1 {
		num, den = num.scale(1/c), constPoly(1)
	} else if den.leading() < 0 {
		num, den = num.scale(-1), den.scale(-1)
	}

	out := Expr{v: e.v, delay: e.delay, num: num, den: den}
	if !out.hasDelay() {
		out.delay = 0
	}
	return out, nil
}

func cancelMonomial(num, den poly) (poly, poly) {
	minS, minE := math.MaxInt, math.MaxInt
	for _, p := range []poly{num, den} {
		for m := range p {
			minS = min(minS, m.S)
			minE = min(minE, m.E)
		}
	}
	if minS == 0 && minE == 0 {
		return num, den
	}
	return num.shift(minS, minE), den.shift(minS, minE)
}

func cancelCommonFactor(num, den poly) (poly, poly) {
	ns, ds := num.slices(), den.slices()

	var g []float64
	for _, sl := range orderedSlices(ns, ds) {
		g = gcd(g, sl)
		if degree(g) < 1 {
			return num, den
		}
	}

	reduce := func(sl map[int][]float64) (map[int][]float64, bool) {
		out := make(map[int][]float64, len(sl))
		for e, c := range sl {
			q, ok := divides(c, g)
			if !ok {
				return nil, false
			}
			out[e] = q
		}
		return out, true
	}

	rn, ok := reduce(ns)
	if !ok {
		return num, den
	}
	rd, ok := reduce(ds)
	if !ok {
		return num, den
	}
	return fromSlices(rn), fromSlices(rd)
}

func orderedSlices(sets ...map[int][]float64) [][]float64 {
	var out [][]float64
	for _, set := range sets {
		keys := make([]int, 0, len(set))
		for e := range set {
			keys = append(keys, e)
		}
		sort.Ints(keys)
		for _, e := range keys {
			out = append(out, set[e])
		}
	}
	return out
}
