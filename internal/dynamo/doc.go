// Package dynamo provides the simulation primitives used to compute time
// responses of linear plants.
//
// The package defines:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [LinearSystem]: systems that expose their (A, B) matrices
//   - [Integrator]: numerical stepping interface
//   - [Controller]: input source evaluated at every grid point
//   - [Simulator]: runs a system over a uniform time grid
//
// # Example
//
//	ss, _ := tf.StateSpace()
//	s := dynamo.New(ss, integrators.NewZOH(), control.NewStep(1))
//	final, err := s.Run(ctx, make(dynamo.State, ss.StateDim()), dynamo.Config{Duration: 50, Samples: 5000})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe and integrators keep scratch
// buffers. Build one simulator per run.
package dynamo
