// Package analysis runs the reaction-curve tuning pipeline end to end.
//
// A single call goes through these stages:
//
//   - simulate the unit-step response of the plant ([response])
//   - identify dead time L and time constant T ([reaction])
//   - compute Ziegler–Nichols PID gains ([tuning])
//   - build and simplify the closed loop ([symbolic])
//   - format the open-loop plant as text ([polyfmt])
//   - draw the parameter diagram ([diagram])
//
// # Placeholder plant
//
// The equation text and variable names of a [Request] are recorded but not
// parsed. Every analysis targets [PlaceholderPlant], 1/(2s + 1).
//
//	a := analysis.New(analysis.WithLogger(logger))
//	res, err := a.Analyze(ctx, analysis.Request{Method: "zn"})
package analysis
