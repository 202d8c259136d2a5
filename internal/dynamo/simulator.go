package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	observers  []Observer
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run samples the system on cfg's grid and returns the state at the last
// grid point. Nothing is retained between samples; observers see every
// grid point exactly once, including the last one. Cancellation is
// reported as a SimError wrapping ctx.Err().
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: x0 has %d entries, system order is %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	times := cfg.Grid()
	x := x0.Clone()
	for i, t := range times {
		select {
		case <-ctx.Done():
			return x, SimError{Time: t, Step: i, Wrapped: ctx.Err()}
		default:
		}

		u := s.controller.Compute(x, t)
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		if i == len(times)-1 {
			break
		}
		x = s.integrator.Step(s.dyn, x, u, t, times[i+1]-t)
	}

	return x, nil
}
