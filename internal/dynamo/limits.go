package dynamo

import "math"

// LimitPair holds the symmetric effort and velocity bounds of an actuator.
// Unset bounds are +Inf.
type LimitPair struct {
	Effort   float64
	Velocity float64
}

func Unbounded() LimitPair {
	return LimitPair{Effort: math.Inf(1), Velocity: math.Inf(1)}
}

func (l LimitPair) EffortBounded() bool   { return !math.IsInf(l.Effort, 1) }
func (l LimitPair) VelocityBounded() bool { return !math.IsInf(l.Velocity, 1) }
