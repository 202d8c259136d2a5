// Package viz renders analysis runs in the terminal.
//
//   - [Report]: styled summary of a run with an asciigraph step-response plot
//   - [NewApp]: Bubble Tea form collecting equation, input, output and tuning
//     method, then showing the report
//
// # Key Bindings
//
//	Tab/Shift+Tab - Move between fields
//	Enter         - Analyze
//	B             - Back to the form
//	T             - Cycle color themes
//	Q/Esc         - Quit
package viz
