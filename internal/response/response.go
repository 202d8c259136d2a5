// Package response simulates the open-loop step response of a transfer
// function on a fixed uniform grid.
package response

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/zntune/internal/control"
	"github.com/san-kum/zntune/internal/dynamo"
	"github.com/san-kum/zntune/internal/integrators"
	"github.com/san-kum/zntune/internal/lti"
	"github.com/san-kum/zntune/internal/metrics"
)

const (
	DefaultDuration   = 50.0
	DefaultSamples    = 5000
	DefaultIntegrator = "zoh"
)

var ErrInvalidGrid = errors.New("response: invalid sampling grid")

// Curve is a step response sampled at strictly increasing times.
type Curve struct {
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Times)
}

// Final returns the last sample, or zero for an empty curve.
func (c *Curve) Final() float64 {
	if c.Len() == 0 {
		return 0
	}
	return c.Values[len(c.Values)-1]
}

type Config struct {
	Duration   float64
	Samples    int
	Integrator string
}

func DefaultConfig() Config {
	return Config{
		Duration:   DefaultDuration,
		Samples:    DefaultSamples,
		Integrator: DefaultIntegrator,
	}
}

// Simulator holds only configuration; every Step call builds its own
// integrator and buffers.
type Simulator struct {
	cfg Config
}

func NewSimulator(cfg Config) *Simulator {
	if cfg.Integrator == "" {
		cfg.Integrator = DefaultIntegrator
	}
	return &Simulator{cfg: cfg}
}

func (s *Simulator) Config() Config { return s.cfg }

// Step returns the response of tf to a unit step applied at t = 0, starting
// from rest. Unstable plants yield non-finite samples rather than an error.
// Each sample is also fed to ms.
func (s *Simulator) Step(ctx context.Context, tf lti.TransferFunction, ms ...metrics.Metric) (*Curve, error) {
	grid := dynamo.Config{Duration: s.cfg.Duration, Samples: s.cfg.Samples}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}

	ss, err := tf.StateSpace()
	if err != nil {
		return nil, err
	}

	integ, err := integrators.New(s.cfg.Integrator)
	if err != nil {
		return nil, err
	}

	rec := &recorder{
		ss:      ss,
		metrics: ms,
		curve: &Curve{
			Times:  make([]float64, 0, s.cfg.Samples),
			Values: make([]float64, 0, s.cfg.Samples),
		},
	}

	sim := dynamo.New(ss, integ, control.NewStep(1.0))
	sim.AddObserver(rec)

	if _, err := sim.Run(ctx, make(dynamo.State, ss.StateDim()), grid); err != nil {
		return nil, err
	}
	return rec.curve, nil
}

// recorder maps each simulated state to the plant output.
type recorder struct {
	ss      *lti.StateSpace
	metrics []metrics.Metric
	curve   *Curve
}

func (r *recorder) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	y := r.ss.Output(x, u)
	r.curve.Times = append(r.curve.Times, t)
	r.curve.Values = append(r.curve.Values, y)
	for _, m := range r.metrics {
		m.Observe(t, y)
	}
}
