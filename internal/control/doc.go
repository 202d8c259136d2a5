// Package control provides input sources for open-loop simulations.
//
// Sources implement [dynamo.Controller] and are evaluated once per grid
// point:
//
//   - [Step]: constant amplitude from a start time (unit step for reaction curves)
package control
