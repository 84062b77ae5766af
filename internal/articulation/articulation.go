// Package articulation binds the actuator groups of one mechanism to its
// full joint list and routes full-width commands through them.
package articulation

import (
	"fmt"
	"strings"

	"github.com/san-kum/actuate/internal/actuators"
	"github.com/san-kum/actuate/internal/compute"
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
)

type Articulation struct {
	name    string
	joints  []string
	numEnvs int
	groups  []actuators.Model
	owner   []int // joint index -> group index, -1 when unactuated
}

// New builds every actuator group of cfg. A joint may belong to at most one
// group.
func New(cfg *config.Articulation, opts ...actuators.Option) (*Articulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := compute.ByName(cfg.Device)
	if err != nil {
		return nil, &dynamo.ConfigError{Field: "device", Patterns: []string{cfg.Device}, Reason: err.Error()}
	}
	opts = append([]actuators.Option{actuators.WithBackend(backend)}, opts...)

	a := &Articulation{
		name:    cfg.Name,
		joints:  append([]string(nil), cfg.Joints...),
		numEnvs: cfg.NumEnvs,
		groups:  make([]actuators.Model, 0, len(cfg.Actuators)),
		owner:   make([]int, len(cfg.Joints)),
	}
	for i := range a.owner {
		a.owner[i] = -1
	}

	for gi, acfg := range cfg.Actuators {
		m, err := actuators.New(acfg, a.joints, a.numEnvs, opts...)
		if err != nil {
			return nil, fmt.Errorf("actuator %q: %w", acfg.Name, err)
		}
		for _, j := range m.Base().JointIndices() {
			if prev := a.owner[j]; prev >= 0 {
				return nil, &dynamo.ConfigError{
					Field:    "actuators",
					Patterns: []string{a.joints[j]},
					Reason:   fmt.Sprintf("joint claimed by both %q and %q", cfg.Actuators[prev].Name, acfg.Name),
				}
			}
			a.owner[j] = gi
		}
		a.groups = append(a.groups, m)
	}
	return a, nil
}

func (a *Articulation) Name() string         { return a.name }
func (a *Articulation) NumEnvs() int         { return a.numEnvs }
func (a *Articulation) NumJoints() int       { return len(a.joints) }
func (a *Articulation) JointNames() []string { return append([]string(nil), a.joints...) }

func (a *Articulation) Groups() []actuators.Model {
	return append([]actuators.Model(nil), a.groups...)
}

// Group returns the group with the configured name.
func (a *Articulation) Group(name string) (actuators.Model, bool) {
	for _, m := range a.groups {
		if m.Base().Name() == name {
			return m, true
		}
	}
	return nil, false
}

// EffortOnlyJoints lists joints driven by explicit models. The engine's own
// PD drive must be disabled on them.
func (a *Articulation) EffortOnlyJoints() []int {
	var out []int
	for _, m := range a.groups {
		if ex, ok := m.(actuators.Explicit); ok && ex.IsExplicit() {
			out = append(out, m.Base().JointIndices()...)
		}
	}
	return out
}

// UnactuatedJoints lists joints no group claims.
func (a *Articulation) UnactuatedJoints() []int {
	var out []int
	for j, g := range a.owner {
		if g < 0 {
			out = append(out, j)
		}
	}
	return out
}

func (a *Articulation) Reset(envIDs []int) error {
	for _, m := range a.groups {
		if err := m.Reset(envIDs); err != nil {
			return err
		}
	}
	return nil
}

// Compute routes full-width commands through every group. Unactuated
// joints keep their input targets. Joints of a group that does not command
// positions or velocities get zero in those columns. All shapes are checked
// before any group runs.
func (a *Articulation) Compute(action actuators.Actions, pos, vel *dynamo.Field) (actuators.Actions, error) {
	n := len(a.joints)
	checks := []struct {
		name string
		f    *dynamo.Field
	}{
		{"target positions", action.Positions},
		{"target velocities", action.Velocities},
		{"target efforts", action.Efforts},
		{"joint positions", pos},
		{"joint velocities", vel},
	}
	for _, c := range checks {
		if err := dynamo.CheckShape(c.name, c.f, a.numEnvs, n); err != nil {
			return actuators.Actions{}, err
		}
	}

	out := actuators.Actions{
		Positions:  action.Positions.Clone(),
		Velocities: action.Velocities.Clone(),
		Efforts:    action.Efforts.Clone(),
	}

	for _, m := range a.groups {
		idx := m.Base().JointIndices()
		sub := actuators.Actions{
			Positions:  gather(action.Positions, idx),
			Velocities: gather(action.Velocities, idx),
			Efforts:    gather(action.Efforts, idx),
		}
		res, err := m.Compute(sub, gather(pos, idx), gather(vel, idx))
		if err != nil {
			return actuators.Actions{}, fmt.Errorf("group %q: %w", m.Base().Name(), err)
		}
		scatter(out.Positions, res.Positions, idx)
		scatter(out.Velocities, res.Velocities, idx)
		scatter(out.Efforts, res.Efforts, idx)
	}
	return out, nil
}

func (a *Articulation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Articulation %s: %d joints, %d envs, %d groups\n", a.name, len(a.joints), a.numEnvs, len(a.groups))
	for _, m := range a.groups {
		b.WriteString(m.String())
	}
	return b.String()
}

func gather(src *dynamo.Field, idx []int) *dynamo.Field {
	dst := dynamo.NewField(src.Envs(), len(idx))
	for e := 0; e < src.Envs(); e++ {
		in, out := src.Row(e), dst.Row(e)
		for k, j := range idx {
			out[k] = in[j]
		}
	}
	return dst
}

// scatter writes src into the idx columns of dst. A nil src zeroes them.
func scatter(dst, src *dynamo.Field, idx []int) {
	for e := 0; e < dst.Envs(); e++ {
		row := dst.Row(e)
		for k, j := range idx {
			if src == nil {
				row[j] = 0
				continue
			}
			row[j] = src.At(e, k)
		}
	}
}
