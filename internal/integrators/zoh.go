package integrators

import (
	"math"

	"github.com/san-kum/zntune/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// ZOH advances a linear system exactly under a zero-order-hold input:
//
//	x(t+dt) = e^(A dt) x(t) + (∫₀^dt e^(A τ) dτ) B u
//
// Both factors come from a single matrix exponential of the augmented
// matrix [[A, B], [0, 0]]·dt. Systems that are not linear fall back to RK4.
type ZOH struct {
	phi      *mat.Dense
	gamma    *mat.Dense
	dt       float64
	fallback *ExplicitRK
}

func NewZOH() *ZOH {
	return &ZOH{fallback: NewRK4()}
}

func (z *ZOH) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	lin, ok := dyn.(dynamo.LinearSystem)
	if !ok {
		return z.fallback.Step(dyn, x, u, t, dt)
	}

	n := len(x)
	if n == 0 {
		return dynamo.State{}
	}

	a, b := lin.Matrices()
	z.discretize(a, b, dt)

	var next mat.VecDense
	next.MulVec(z.phi, mat.NewVecDense(n, x.Clone()))

	if z.gamma != nil {
		_, m := z.gamma.Dims()
		if len(u) != m {
			panic(dynamo.ErrDimensionMismatch)
		}
		var bu mat.VecDense
		bu.MulVec(z.gamma, mat.NewVecDense(m, append([]float64(nil), u...)))
		next.AddVec(&next, &bu)
	}

	out := make(dynamo.State, n)
	for i := range out {
		out[i] = next.AtVec(i)
	}
	return out
}

// discretize refreshes phi and gamma unless dt matches the cached step.
// Uniform grids hit the cache on every step after the first.
func (z *ZOH) discretize(a, b mat.Matrix, dt float64) {
	if z.phi != nil && math.Abs(dt-z.dt) <= 1e-12*math.Max(1, math.Abs(dt)) {
		return
	}

	n, _ := a.Dims()
	m := 0
	if b != nil {
		_, m = b.Dims()
	}

	aug := mat.NewDense(n+m, n+m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug.Set(i, j, a.At(i, j)*dt)
		}
		for j := 0; j < m; j++ {
			aug.Set(i, n+j, b.At(i, j)*dt)
		}
	}

	var e mat.Dense
	e.Exp(aug)

	z.phi = mat.DenseCopyOf(e.Slice(0, n, 0, n))
	z.gamma = nil
	if m > 0 {
		z.gamma = mat.DenseCopyOf(e.Slice(0, n, n, n+m))
	}
	z.dt = dt
}
