// Package viz renders actuator groups and sweeps for the terminal.
//
// The package provides:
//
//   - [RenderGroup]: a summary card of a group's joints, gains and limits
//   - [RenderActions]: per-joint targets and efforts for one environment
//   - [PlotSweep]: asciigraph charts of a stored sweep
//   - [TuneModel]: a Bubble Tea program that recomputes a group live
//
// # Key Bindings (tune)
//
//	Tab   - Next joint
//	1-4   - Select target, position, velocity or effort
//	↑/↓   - Adjust the selected input
//	Space - Pause/Resume stepping
//	R     - Reset environment 0
//	T     - Cycle color themes
//	Q     - Quit
package viz
