// Package symbolic builds and simplifies transfer functions of the form
//
//	N(s, D) / M(s, D),   D = e^(-L·s)
//
// where N and M are polynomials in the frequency variable s and in the
// transport-delay factor D. This covers PID controllers, first-order lags
// with dead time, and their unity-feedback combinations.
//
// # Usage
//
//	s := symbolic.NewVar("s")
//	c := symbolic.Controller(s, gains)
//	g := symbolic.Plant(s, fopdt)
//	closed, err := symbolic.ClosedLoop(c, g)
//	if err != nil {
//		return err
//	}
//	fmt.Println(closed.LaTeX())
//
// Expressions are immutable values. Every builder call produces a new tree,
// so there is no shared symbol table.
package symbolic
