// Package joints resolves actuator groups against an articulation's joint
// list and overlays per-joint gains.
//
// Patterns use RE2 syntax with full-string semantics: "hip_.*" matches
// "hip_left" but not "left_hip_pitch".
//
//	set, err := joints.Resolve(joints.Patterns(".*_HAA", ".*_HFE"), names)
//	err = joints.Overlay(stiffness, set.Names, joints.PatternValues{
//	    {Pattern: ".*", Value: joints.Value(40)},
//	    {Pattern: "LF_.*", Value: joints.Value(45)},
//	})
//
// Overlay entries are applied in declaration order and the last entry that
// matches a joint wins for that joint only.
package joints
