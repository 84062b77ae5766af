package actuators

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/actuate/internal/compute"
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
	"github.com/san-kum/actuate/internal/joints"
)

type options struct {
	backend compute.Backend
	logger  *slog.Logger
}

type Option func(*options)

// WithBackend sets the backend used to sweep environment rows.
func WithBackend(b compute.Backend) Option {
	return func(o *options) { o.backend = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Group is the state every actuator model shares: which joints it drives,
// their gains and limits, and the effort it computed on the last step.
// All fields are shaped (num_envs, num_joints) and owned by the group.
type Group struct {
	kind    string
	name    string
	expr    string
	joints  joints.JointSet
	numEnvs int

	Limits dynamo.LimitPair

	// ComputedEffort is the model output before limits.
	ComputedEffort *dynamo.Field
	// AppliedEffort is ComputedEffort after limits.
	AppliedEffort *dynamo.Field
	Stiffness     *dynamo.Field
	Damping       *dynamo.Field

	backend compute.Backend
	logger  *slog.Logger
}

// NewGroup resolves cfg against the articulation joint names and
// allocates the group buffers. kind names the model for summaries.
func NewGroup(kind string, cfg config.Actuator, names []string, numEnvs int, opts ...Option) (*Group, error) {
	o := options{backend: compute.GetBackend(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if numEnvs < 1 {
		return nil, &dynamo.ConfigError{Field: "num_envs", Value: float64(numEnvs), Reason: "must be positive"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set, err := joints.Resolve(cfg.Selection(), names)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, &dynamo.ConfigError{
			Field:    "joint_names_expr",
			Patterns: cfg.Selection().Patterns(),
			Reason:   "no articulation joint matches",
		}
	}

	n := set.Len()
	g := &Group{
		kind:           kind,
		name:           cfg.Name,
		expr:           cfg.NamesExpr(),
		joints:         set,
		numEnvs:        numEnvs,
		Limits:         cfg.Limits(),
		ComputedEffort: dynamo.NewField(numEnvs, n),
		AppliedEffort:  dynamo.NewField(numEnvs, n),
		Stiffness:      dynamo.NewField(numEnvs, n),
		Damping:        dynamo.NewField(numEnvs, n),
		backend:        o.backend,
		logger:         o.logger,
	}

	if err := joints.Overlay(g.Stiffness, set.Names, cfg.Stiffness.Values()); err != nil {
		return nil, fmt.Errorf("stiffness: %w", err)
	}
	if err := joints.Overlay(g.Damping, set.Names, cfg.Damping.Values()); err != nil {
		return nil, fmt.Errorf("damping: %w", err)
	}

	g.logger.Debug("actuator group resolved",
		"group", g.name,
		"model", kind,
		"joints", set.Names,
		"envs", numEnvs,
		"backend", g.backend.Name(),
	)
	return g, nil
}

func (g *Group) Base() *Group { return g }

func (g *Group) Kind() string { return g.kind }
func (g *Group) Name() string { return g.name }

func (g *Group) NumJoints() int { return g.joints.Len() }
func (g *Group) NumEnvs() int   { return g.numEnvs }

func (g *Group) JointNames() []string {
	return append([]string(nil), g.joints.Names...)
}

// JointIndices returns the articulation indices of the group joints.
func (g *Group) JointIndices() []int {
	return append([]int(nil), g.joints.Indices...)
}

// AllJoints reports whether the group was declared over every joint.
func (g *Group) AllJoints() bool { return g.joints.All }

func (g *Group) String() string {
	indices := fmt.Sprint(g.joints.Indices)
	if g.joints.All {
		indices = "all"
	}
	return fmt.Sprintf("<class %s> object:\n"+
		"\tNumber of joints      : %d\n"+
		"\tJoint names expression: %s\n"+
		"\tJoint names           : %v\n"+
		"\tJoint indices         : %s\n",
		g.kind, g.NumJoints(), g.expr, g.joints.Names, indices)
}

// Reset zeroes the effort buffers of envIDs.
func (g *Group) Reset(envIDs []int) error {
	if err := g.CheckEnvIDs(envIDs); err != nil {
		return err
	}
	g.ComputedEffort.ZeroRows(envIDs)
	g.AppliedEffort.ZeroRows(envIDs)
	return nil
}

func (g *Group) CheckEnvIDs(envIDs []int) error {
	for _, e := range envIDs {
		if e < 0 || e >= g.numEnvs {
			return fmt.Errorf("%w: env id %d outside [0, %d)", dynamo.ErrShapeMismatch, e, g.numEnvs)
		}
	}
	return nil
}

// CheckInputs validates every compute input against (num_envs, num_joints).
func (g *Group) CheckInputs(action Actions, pos, vel *dynamo.Field) error {
	n := g.NumJoints()
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
		if err := dynamo.CheckShape(c.name, c.f, g.numEnvs, n); err != nil {
			return err
		}
	}
	return nil
}

// pdEffort writes k*(qd-q) + d*(vd-v) + ff into ComputedEffort.
func (g *Group) pdEffort(target Actions, pos, vel *dynamo.Field) {
	g.backend.Rows(g.numEnvs, func(start, end int) {
		for e := start; e < end; e++ {
			qd, vd, ff := target.Positions.Row(e), target.Velocities.Row(e), target.Efforts.Row(e)
			q, v := pos.Row(e), vel.Row(e)
			k, d := g.Stiffness.Row(e), g.Damping.Row(e)
			out := g.ComputedEffort.Row(e)
			for j := range out {
				out[j] = k[j]*(qd[j]-q[j]) + d[j]*(vd[j]-v[j]) + ff[j]
			}
		}
	})
}

// clampEffort writes ComputedEffort limited to ±Limits.Effort into
// AppliedEffort.
func (g *Group) clampEffort() {
	limit := g.Limits.Effort
	g.backend.Rows(g.numEnvs, func(start, end int) {
		for e := start; e < end; e++ {
			in, out := g.ComputedEffort.Row(e), g.AppliedEffort.Row(e)
			for j := range out {
				out[j] = dynamo.Clamp(in[j], limit)
			}
		}
	})
}

// clampVelocity returns a copy of vel limited to ±Limits.Velocity.
func (g *Group) clampVelocity(vel *dynamo.Field) *dynamo.Field {
	out := vel.Clone()
	if !g.Limits.VelocityBounded() {
		return out
	}
	limit := g.Limits.Velocity
	g.backend.Rows(g.numEnvs, func(start, end int) {
		for e := start; e < end; e++ {
			row := out.Row(e)
			for j := range row {
				row[j] = dynamo.Clamp(row[j], limit)
			}
		}
	})
	return out
}

func (g *Group) appliedCopy() *dynamo.Field {
	return g.AppliedEffort.Clone()
}
