// Package reaction estimates a first-order-plus-dead-time model from a step
// response using the two-point reaction-curve method.
package reaction

import (
	"fmt"
	"math"

	"github.com/san-kum/zntune/internal/response"
)

const (
	// DelayFraction is the response fraction whose crossing time is L.
	DelayFraction = 0.283
	// TimeConstantFraction is the response fraction reached one time
	// constant after the delay.
	TimeConstantFraction = 0.632
)

// FOPDT holds dead time L and time constant T. The zero value means
// identification failed.
type FOPDT struct {
	L float64 `json:"L" yaml:"L"`
	T float64 `json:"T" yaml:"T"`
}

// Identified reports whether both parameters are usable for tuning.
func (p FOPDT) Identified() bool {
	return p.L > 0 && p.T > 0
}

func (p FOPDT) String() string {
	return fmt.Sprintf("L=%.3f T=%.3f", p.L, p.T)
}

// Identify never fails: a curve that is empty, ends in a non-finite value,
// or never reaches a threshold yields the zero FOPDT.
func Identify(c *response.Curve) FOPDT {
	if c.Len() == 0 {
		return FOPDT{}
	}

	final := c.Final()
	if math.IsNaN(final) || math.IsInf(final, 0) {
		return FOPDT{}
	}

	t1, ok := firstCrossing(c, DelayFraction*final)
	if !ok {
		return FOPDT{}
	}
	t2, ok := firstCrossing(c, TimeConstantFraction*final)
	if !ok {
		return FOPDT{}
	}

	p := FOPDT{L: t1, T: (t2 - t1) / TimeConstantFraction}
	if p.L < 0 {
		p.L = 0
	}
	if p.T < 0 {
		p.T = 0
	}
	return p
}

func firstCrossing(c *response.Curve, level float64) (float64, bool) {
	for i, y := range c.Values {
		if y >= level {
			return c.Times[i], true
		}
	}
	return 0, false
}
