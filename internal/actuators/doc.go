// Package actuators turns desired joint commands into the effort an
// articulation should apply.
//
// Every model shares a [Group]: the resolved joints, the per-joint
// stiffness and damping, the effort buffers and the limits. Models add the
// law that maps commands and joint state to computed effort:
//
//   - [Passthrough]: commanded effort, clamped
//   - [ImplicitPD]: PD estimate for an engine-side PD drive
//   - [IdealPD]: explicit PD effort
//   - [DCMotor]: explicit PD effort inside a torque-speed envelope
//   - [DelayedPD]: explicit PD on commands delayed per environment
//
// # Usage
//
//	m, err := actuators.New(cfg, articulationJoints, numEnvs)
//	out, err := m.Compute(actuators.Actions{Positions: qd, Velocities: vd, Efforts: ff}, q, v)
//
// A model must see Reset for an environment before the first Compute that
// follows an episode reset there. A single model is not safe for concurrent
// use; distinct models share no mutable state.
package actuators
