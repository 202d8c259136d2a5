package lti

import (
	"github.com/san-kum/zntune/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// StateSpace is the controllable canonical realization of a proper
// transfer function:
//
//	x'(t) = A x(t) + B u(t)
//	y(t)  = C x(t) + D u(t)
//
// A static gain has order zero and nil matrices.
type StateSpace struct {
	A *mat.Dense
	B *mat.Dense
	C *mat.Dense
	D float64

	order int
}

// StateSpace realizes tf. Coefficients are normalized by the leading
// denominator coefficient.
func (tf TransferFunction) StateSpace() (*StateSpace, error) {
	if err := tf.Validate(); err != nil {
		return nil, err
	}

	n := tf.Order()
	lead := tf.Den[0]

	a := make([]float64, n+1)
	for i, c := range tf.Den {
		a[i] = c / lead
	}

	num := trimLeadingZeros(tf.Num)
	b := make([]float64, n+1)
	offset := n + 1 - len(num)
	for i, c := range num {
		b[offset+i] = c / lead
	}

	ss := &StateSpace{D: b[0], order: n}
	if n == 0 {
		return ss, nil
	}

	ss.A = mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		ss.A.Set(0, j, -a[j+1])
	}
	for i := 1; i < n; i++ {
		ss.A.Set(i, i-1, 1)
	}

	ss.B = mat.NewDense(n, 1, nil)
	ss.B.Set(0, 0, 1)

	ss.C = mat.NewDense(1, n, nil)
	for j := 0; j < n; j++ {
		ss.C.Set(0, j, b[j+1]-a[j+1]*b[0])
	}

	return ss, nil
}

func (ss *StateSpace) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, ss.order)
	if ss.order == 0 {
		return dx
	}

	in := 0.0
	if len(u) > 0 {
		in = u[0]
	}

	var v mat.VecDense
	v.MulVec(ss.A, mat.NewVecDense(ss.order, x.Clone()))
	for i := range dx {
		dx[i] = v.AtVec(i) + ss.B.At(i, 0)*in
	}
	return dx
}

// Output evaluates y = C x + D u.
func (ss *StateSpace) Output(x dynamo.State, u dynamo.Control) float64 {
	in := 0.0
	if len(u) > 0 {
		in = u[0]
	}
	y := ss.D * in
	for j := 0; j < ss.order; j++ {
		y += ss.C.At(0, j) * x[j]
	}
	return y
}

func (ss *StateSpace) Matrices() (a, b mat.Matrix) {
	if ss.order == 0 {
		return nil, nil
	}
	return ss.A, ss.B
}

func (ss *StateSpace) StateDim() int   { return ss.order }
func (ss *StateSpace) ControlDim() int { return 1 }
