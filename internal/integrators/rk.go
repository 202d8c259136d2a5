package integrators

import "github.com/san-kum/zntune/internal/dynamo"

// tableau is an explicit Runge–Kutta scheme in Butcher form. Stage i is
// evaluated at t + c[i]·dt on x + dt·Σ a[i][j]·k[j], and the step is
// x + dt·Σ b[i]·k[i].
type tableau struct {
	a [][]float64
	b []float64
	c []float64
}

var (
	eulerTableau = tableau{
		a: [][]float64{{}},
		b: []float64{1},
		c: []float64{0},
	}
	heunTableau = tableau{
		a: [][]float64{{}, {1}},
		b: []float64{0.5, 0.5},
		c: []float64{0, 1},
	}
	rk4Tableau = tableau{
		a: [][]float64{{}, {0.5}, {0, 0.5}, {0, 0, 1}},
		b: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
		c: []float64{0, 0.5, 0.5, 1},
	}
)

// ExplicitRK advances any dynamo.System with a fixed-step explicit scheme.
// Stage buffers are kept between steps, so a value must not be shared by
// concurrent runs.
type ExplicitRK struct {
	tab     tableau
	k       []dynamo.State
	scratch dynamo.State
}

func newExplicitRK(tab tableau) *ExplicitRK {
	return &ExplicitRK{tab: tab}
}

func NewEuler() *ExplicitRK { return newExplicitRK(eulerTableau) }

// NewHeun returns the second-order trapezoidal predictor-corrector.
func NewHeun() *ExplicitRK { return newExplicitRK(heunTableau) }

func NewRK4() *ExplicitRK { return newExplicitRK(rk4Tableau) }

// Stages is the number of derivative evaluations per step.
func (r *ExplicitRK) Stages() int { return len(r.tab.b) }

func (r *ExplicitRK) ensureScratch(n int) {
	if len(r.scratch) == n && len(r.k) == r.Stages() {
		return
	}
	r.k = make([]dynamo.State, r.Stages())
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

func (r *ExplicitRK) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.ensureScratch(len(x))

	for i, row := range r.tab.a {
		copy(r.scratch, x)
		for j, aij := range row {
			if aij != 0 {
				axpy(r.scratch, dt*aij, r.k[j])
			}
		}
		copy(r.k[i], dyn.Derive(r.scratch, u, t+r.tab.c[i]*dt))
	}

	next := x.Clone()
	for i, bi := range r.tab.b {
		axpy(next, dt*bi, r.k[i])
	}
	return next
}

// axpy sets y = y + alpha·x.
func axpy(y dynamo.State, alpha float64, x dynamo.State) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}
