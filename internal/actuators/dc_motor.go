package actuators

import (
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
)

// DCMotor is an explicit PD drive whose output is bounded by a linear
// torque-speed curve. At joint velocity v the admissible effort is
//
//	[sat*(-1 - v/vmax), sat*(1 - v/vmax)]
//
// intersected with [-effort_limit, 0] and [0, effort_limit] respectively,
// so a motor spinning at vmax can only brake.
type DCMotor struct {
	*Group
	saturation float64
}

func NewDCMotor(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (*DCMotor, error) {
	if cfg.SaturationEffort == nil || *cfg.SaturationEffort <= 0 {
		v := 0.0
		if cfg.SaturationEffort != nil {
			v = *cfg.SaturationEffort
		}
		return nil, &dynamo.ConfigError{Field: "saturation_effort", Value: v, Reason: "dc motor needs a positive saturation effort"}
	}
	limits := cfg.Limits()
	if !limits.VelocityBounded() || limits.Velocity <= 0 {
		return nil, &dynamo.ConfigError{Field: "velocity_limit", Value: limits.Velocity, Reason: "dc motor needs a finite positive velocity limit"}
	}

	g, err := NewGroup("DCMotor", cfg, names, numEnvs, opts...)
	if err != nil {
		return nil, err
	}
	return &DCMotor{Group: g, saturation: *cfg.SaturationEffort}, nil
}

func (m *DCMotor) IsExplicit() bool { return true }

func (m *DCMotor) SaturationEffort() float64 { return m.saturation }

func (m *DCMotor) Compute(action Actions, pos, vel *dynamo.Field) (Actions, error) {
	if err := m.CheckInputs(action, pos, vel); err != nil {
		return Actions{}, err
	}

	m.pdEffort(action, pos, vel)
	m.clip(vel)

	return Actions{Efforts: m.appliedCopy()}, nil
}

// Envelope returns the admissible effort range at joint velocity v.
func (m *DCMotor) Envelope(v float64) (lo, hi float64) {
	limit := m.Limits.Effort
	ratio := v / m.Limits.Velocity
	hi = dynamo.ClampRange(m.saturation*(1.0-ratio), 0, limit)
	lo = dynamo.ClampRange(m.saturation*(-1.0-ratio), -limit, 0)
	return lo, hi
}

func (m *DCMotor) clip(vel *dynamo.Field) {
	m.backend.Rows(m.numEnvs, func(start, end int) {
		for e := start; e < end; e++ {
			in, out, v := m.ComputedEffort.Row(e), m.AppliedEffort.Row(e), vel.Row(e)
			for j := range out {
				lo, hi := m.Envelope(v[j])
				out[j] = dynamo.ClampRange(in[j], lo, hi)
			}
		}
	})
}
