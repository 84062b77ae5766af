package actuators

import (
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
)

// Passthrough applies the commanded effort as is, subject to the effort
// limit. Position and velocity targets pass through untouched.
type Passthrough struct {
	*Group
}

func NewPassthrough(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (*Passthrough, error) {
	g, err := NewGroup("Passthrough", cfg, names, numEnvs, opts...)
	if err != nil {
		return nil, err
	}
	return &Passthrough{Group: g}, nil
}

func (p *Passthrough) Compute(action Actions, pos, vel *dynamo.Field) (Actions, error) {
	if err := p.CheckInputs(action, pos, vel); err != nil {
		return Actions{}, err
	}

	if err := p.ComputedEffort.CopyFrom(action.Efforts); err != nil {
		return Actions{}, err
	}
	p.clampEffort()

	return Actions{
		Positions:  action.Positions,
		Velocities: action.Velocities,
		Efforts:    p.appliedCopy(),
	}, nil
}
