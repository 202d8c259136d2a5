// Package tuning maps reaction-curve parameters to PID gains.
package tuning

import (
	"fmt"
	"strings"

	"github.com/san-kum/zntune/internal/reaction"
)

// Gains are parallel-form PID gains: Kp + Ki/s + Kd·s. The zero value marks
// a plant that could not be tuned.
type Gains struct {
	Kp float64 `json:"Kp" yaml:"Kp"`
	Ki float64 `json:"Ki" yaml:"Ki"`
	Kd float64 `json:"Kd" yaml:"Kd"`
}

func (g Gains) IsZero() bool {
	return g == Gains{}
}

func (g Gains) String() string {
	return fmt.Sprintf("Kp=%.3f Ki=%.3f Kd=%.3f", g.Kp, g.Ki, g.Kd)
}

// ZieglerNichols applies the reaction-curve rules Kp = 1.2 T/L, Ti = 2L,
// Td = 0.5L. A zero L or T gives zero gains.
func ZieglerNichols(p reaction.FOPDT) Gains {
	if p.L == 0 || p.T == 0 {
		return Gains{}
	}

	kp := 1.2 * (p.T / p.L)
	ti := 2 * p.L
	td := 0.5 * p.L

	return Gains{
		Kp: kp,
		Ki: kp / ti,
		Kd: kp * td,
	}
}

// ZieglerNicholsMethod is the only implemented tuning rule.
const ZieglerNicholsMethod = "ziegler-nichols"

// Method normalizes a user-supplied selector for display. Every selector
// is tuned with Ziegler–Nichols; the second result reports whether the
// selector named that rule.
func Method(selector string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(selector))
	s = strings.NewReplacer("_", "-", " ", "-", "–", "-").Replace(s)
	switch s {
	case "", "zn", "ziegler-nichols", "ziegler-nichols-reaction-curve", "reaction-curve":
		return ZieglerNicholsMethod, true
	}
	return s, false
}
