package actuators

import (
	"fmt"
	"sort"

	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
)

// Actions carries per-joint targets shaped (num_envs, num_joints). In a
// model's output a nil field means the model does not command it.
type Actions struct {
	Positions  *dynamo.Field
	Velocities *dynamo.Field
	Efforts    *dynamo.Field
}

// NewActions returns zero-filled actions.
func NewActions(envs, joints int) Actions {
	return Actions{
		Positions:  dynamo.NewField(envs, joints),
		Velocities: dynamo.NewField(envs, joints),
		Efforts:    dynamo.NewField(envs, joints),
	}
}

type Model interface {
	// Reset clears per-environment state for envIDs only.
	Reset(envIDs []int) error
	// Compute validates shapes, updates the group's effort buffers and
	// returns the actions for the engine. On error no buffer is modified.
	Compute(action Actions, pos, vel *dynamo.Field) (Actions, error)
	Base() *Group
	String() string
}

// Explicit is implemented by models whose output is effort only, so the
// engine must not run its own PD drive on their joints.
type Explicit interface {
	IsExplicit() bool
}

type factory func(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (Model, error)

var registry = map[string]factory{
	"passthrough": func(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (Model, error) {
		return NewPassthrough(cfg, names, numEnvs, opts...)
	},
	"implicit_pd": func(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (Model, error) {
		return NewImplicitPD(cfg, names, numEnvs, opts...)
	},
	"ideal_pd": func(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (Model, error) {
		return NewIdealPD(cfg, names, numEnvs, opts...)
	},
	"dc_motor": func(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (Model, error) {
		return NewDCMotor(cfg, names, numEnvs, opts...)
	},
	"delayed_pd": func(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (Model, error) {
		return NewDelayedPD(cfg, names, numEnvs, opts...)
	},
}

// New builds the model named by cfg.Class over the articulation joints.
func New(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (Model, error) {
	fn, ok := registry[cfg.ClassName()]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownModel, cfg.ClassName(), Classes())
	}
	return fn(cfg, names, numEnvs, opts...)
}

func Classes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
