// Package dynamo provides the numeric primitives shared by actuator groups.
//
// The package defines:
//
//   - [Field]: a (num_envs, num_joints) buffer for one scalar quantity
//   - [LimitPair]: symmetric effort and velocity bounds, +Inf when unset
//   - [ConfigError] and [ShapeError]: typed errors wrapping
//     [ErrConfiguration] and [ErrShapeMismatch]
//   - [ParallelFor]: chunked fan-out over environment rows
//
// # Example
//
//	stiffness := dynamo.NewField(numEnvs, numJoints)
//	stiffness.FillColumn(0, 80.0)
//	if err := dynamo.CheckShape("positions", pos, numEnvs, numJoints); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// Field is NOT thread-safe. Concurrent writers must touch disjoint rows,
// which is how [ParallelFor] partitions work.
package dynamo
