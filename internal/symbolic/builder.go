package symbolic

import (
	"fmt"

	"github.com/san-kum/zntune/internal/reaction"
	"github.com/san-kum/zntune/internal/tuning"
)

// Controller returns the parallel PID law Kp + Ki/s + Kd·s.
func Controller(v Var, g tuning.Gains) Expr {
	s := v.Expr()
	p := Const(v, g.Kp)
	i := Const(v, g.Ki).div(s, 0)
	d := Const(v, g.Kd).mul(s, 0)
	return p.add(i, 0).add(d, 0)
}

// Plant returns the first-order lag with dead time e^(-L·s) / (T·s + 1).
func Plant(v Var, p reaction.FOPDT) Expr {
	lag := Const(v, p.T).mul(v.Expr(), 0).add(Const(v, 1), 0)
	delay := Delay(v, p.L)
	return delay.div(lag, delay.delay)
}

// Feedback closes a unity negative-feedback loop around the forward path:
// F / (1 + F), simplified.
func Feedback(forward Expr) (Expr, error) {
	den, err := Const(forward.v, 1).Add(forward)
	if err != nil {
		return Expr{}, err
	}
	q, err := forward.Div(den)
	if err != nil {
		return Expr{}, fmt.Errorf("feedback: %w", err)
	}
	return q.Simplify()
}

// ClosedLoop returns the simplified unity-feedback loop of controller c in
// series with plant g.
func ClosedLoop(c, g Expr) (Expr, error) {
	cg, err := c.Mul(g)
	if err != nil {
		return Expr{}, fmt.Errorf("closed loop: %w", err)
	}
	return Feedback(cg)
}
