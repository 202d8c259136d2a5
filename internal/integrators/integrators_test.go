package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/zntune/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

type oscillator struct{}

func (s *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *oscillator) StateDim() int   { return 2 }
func (s *oscillator) ControlDim() int { return 0 }

// lag is dx/dt = -x/tau + u/tau, the state of 1/(tau s + 1).
type lag struct {
	tau float64
}

func (l *lag) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{(-x[0] + u[0]) / l.tau}
}

func (l *lag) StateDim() int   { return 1 }
func (l *lag) ControlDim() int { return 1 }

func (l *lag) Matrices() (a, b mat.Matrix) {
	return mat.NewDense(1, 1, []float64{-1 / l.tau}), mat.NewDense(1, 1, []float64{1 / l.tau})
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100
	for i := 0; i < steps; i++ {
		x = integ.Step(&oscillator{}, x, dynamo.Control{}, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	x := NewEuler().Step(&lag{tau: 2}, dynamo.State{0}, dynamo.Control{1}, 0, 0.1)
	if math.Abs(x[0]-0.05) > 1e-12 {
		t.Errorf("euler step = %v, want 0.05", x[0])
	}
}

func TestHeunStep(t *testing.T) {
	x := NewHeun().Step(&lag{tau: 2}, dynamo.State{0}, dynamo.Control{1}, 0, 0.1)
	if math.Abs(x[0]-0.04875) > 1e-12 {
		t.Errorf("heun step = %v, want 0.04875", x[0])
	}
}

func TestExplicitRKOrder(t *testing.T) {
	sys := &lag{tau: 2}
	want := 1 - math.Exp(-0.5)

	errAt := func(integ dynamo.Integrator, steps int) float64 {
		dt := 1.0 / float64(steps)
		x := dynamo.State{0}
		for i := 0; i < steps; i++ {
			x = integ.Step(sys, x, dynamo.Control{1}, float64(i)*dt, dt)
		}
		return math.Abs(x[0] - want)
	}

	tests := []struct {
		name   string
		new    func() *ExplicitRK
		stages int
		order  int
	}{
		{"euler", NewEuler, 1, 1},
		{"heun", NewHeun, 2, 2},
		{"rk4", NewRK4, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ := tt.new()
			if integ.Stages() != tt.stages {
				t.Errorf("Stages() = %d", integ.Stages())
			}
			ratio := errAt(integ, 10) / errAt(integ, 20)
			expected := math.Pow(2, float64(tt.order))
			if ratio < 0.75*expected || ratio > 1.25*expected {
				t.Errorf("error ratio = %.3f, want about %.0f", ratio, expected)
			}
		})
	}
}

func TestZOHExactStep(t *testing.T) {
	integ := NewZOH()
	sys := &lag{tau: 2}

	x := dynamo.State{0}
	dt := 0.25
	for i := 0; i < 40; i++ {
		x = integ.Step(sys, x, dynamo.Control{1}, float64(i)*dt, dt)
		tNow := float64(i+1) * dt
		want := 1 - math.Exp(-tNow/2)
		if math.Abs(x[0]-want) > 1e-9 {
			t.Fatalf("t=%.2f: got %.12f, want %.12f", tNow, x[0], want)
		}
	}
}

func TestZOHRediscretizesOnNewStep(t *testing.T) {
	integ := NewZOH()
	sys := &lag{tau: 1}

	a := integ.Step(sys, dynamo.State{0}, dynamo.Control{1}, 0, 0.1)
	b := integ.Step(sys, dynamo.State{0}, dynamo.Control{1}, 0, 1.0)

	if math.Abs(a[0]-(1-math.Exp(-0.1))) > 1e-12 {
		t.Errorf("dt=0.1: got %v", a[0])
	}
	if math.Abs(b[0]-(1-math.Exp(-1.0))) > 1e-12 {
		t.Errorf("dt=1.0: got %v", b[0])
	}
}

func TestZOHFallsBackForNonlinear(t *testing.T) {
	zoh := NewZOH().Step(&oscillator{}, dynamo.State{1, 0}, dynamo.Control{}, 0, 0.01)
	rk4 := NewRK4().Step(&oscillator{}, dynamo.State{1, 0}, dynamo.Control{}, 0, 0.01)

	for i := range zoh {
		if zoh[i] != rk4[i] {
			t.Errorf("fallback mismatch at %d: %v vs %v", i, zoh[i], rk4[i])
		}
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"zoh", "rk4", "heun", "euler"} {
		integ, err := New(name)
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
		if integ == nil {
			t.Errorf("New(%q) returned nil", name)
		}
	}

	a, _ := New("rk4")
	b, _ := New("rk4")
	if a == b {
		t.Error("New must return a fresh integrator per call")
	}

	if _, err := New("leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	if got := Names(); len(got) != 4 || got[0] != "euler" || got[1] != "heun" {
		t.Errorf("Names() = %v", got)
	}
}
