package actuators

import (
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
)

// ImplicitPD models a drive whose PD loop runs inside the physics engine.
// It forwards position and velocity targets (velocity limited) and keeps
// the PD estimate k*(qd-q) + d*(vd-v) + ff in the effort buffers.
type ImplicitPD struct {
	*Group
}

func NewImplicitPD(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (*ImplicitPD, error) {
	g, err := NewGroup("ImplicitPD", cfg, names, numEnvs, opts...)
	if err != nil {
		return nil, err
	}
	return &ImplicitPD{Group: g}, nil
}

func (m *ImplicitPD) Compute(action Actions, pos, vel *dynamo.Field) (Actions, error) {
	if err := m.CheckInputs(action, pos, vel); err != nil {
		return Actions{}, err
	}

	m.pdEffort(action, pos, vel)
	m.clampEffort()

	return Actions{
		Positions:  action.Positions,
		Velocities: m.clampVelocity(action.Velocities),
		Efforts:    m.appliedCopy(),
	}, nil
}

// IdealPD computes the PD effort explicitly and commands effort only.
type IdealPD struct {
	*Group
}

func NewIdealPD(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (*IdealPD, error) {
	g, err := NewGroup("IdealPD", cfg, names, numEnvs, opts...)
	if err != nil {
		return nil, err
	}
	return &IdealPD{Group: g}, nil
}

func (m *IdealPD) IsExplicit() bool { return true }

func (m *IdealPD) Compute(action Actions, pos, vel *dynamo.Field) (Actions, error) {
	if err := m.CheckInputs(action, pos, vel); err != nil {
		return Actions{}, err
	}

	m.pdEffort(action, pos, vel)
	m.clampEffort()

	return Actions{Efforts: m.appliedCopy()}, nil
}
