package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// LinearSystem is a time-invariant system dx/dt = A x + B u. Matrices
// returns nil matrices for a zero-order (static) system.
type LinearSystem interface {
	System
	Matrices() (a, b mat.Matrix)
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

// Config describes a uniform sampling grid of Samples points over
// [0, Duration].
type Config struct {
	Duration float64
	Samples  int
}

func (c Config) Validate() error {
	if c.Samples < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidGrid, c.Samples)
	}
	if c.Duration <= 0 || math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive and finite, got %f", ErrInvalidGrid, c.Duration)
	}
	return nil
}

// Grid returns the sample instants, spaced like numpy.linspace with the
// endpoint pinned to Duration.
func (c Config) Grid() []float64 {
	if c.Samples < 2 {
		return nil
	}
	step := c.Duration / float64(c.Samples-1)
	times := make([]float64, c.Samples)
	for i := range times {
		times[i] = float64(i) * step
	}
	times[len(times)-1] = c.Duration
	return times
}
