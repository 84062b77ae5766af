package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/actuate/internal/actuators"
	"github.com/san-kum/actuate/internal/dynamo"
	"github.com/san-kum/actuate/internal/metrics"
)

const (
	AxisVelocity = "velocity"
	AxisPosition = "position"
)

// Config describes a one-dimensional sweep of an actuator group. Along
// the velocity axis the joint velocity runs from From to To while the
// position error is held at Target. Along the position axis the joint
// position runs from From to To with Target as the position target.
type Config struct {
	Axis   string
	From   float64
	To     float64
	Steps  int
	Target float64
	Effort float64
}

func DefaultConfig() Config {
	return Config{
		Axis:  AxisVelocity,
		From:  -10,
		To:    10,
		Steps: 81,
	}
}

func (c Config) Validate() error {
	if c.Axis != AxisVelocity && c.Axis != AxisPosition {
		return fmt.Errorf("unknown sweep axis: %s", c.Axis)
	}
	if c.Steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", c.Steps)
	}
	if c.From == c.To {
		return fmt.Errorf("sweep range is empty: [%g, %g]", c.From, c.To)
	}
	return nil
}

// Result holds environment 0 of each sweep point, one row per point.
type Result struct {
	Group    string
	Model    string
	Axis     string
	Joints   []string
	Inputs   []float64
	Computed [][]float64
	Applied  [][]float64
	Metrics  map[string]float64
}

// Column returns the applied effort of joint j at every sweep point.
func (r *Result) Column(j int) []float64 {
	col := make([]float64, len(r.Applied))
	for i, row := range r.Applied {
		col[i] = row[j]
	}
	return col
}

type Experiment struct {
	cfg     Config
	model   actuators.Model
	metrics []metrics.Metric
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(model actuators.Model, ms []metrics.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	e.model = model
	e.metrics = ms
	return nil
}

// Run evaluates every sweep point. All environments are reset before each
// point so stateful models start each point from an empty history.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.model == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	g := e.model.Base()
	envs, n := g.NumEnvs(), g.NumJoints()
	allEnvs := make([]int, envs)
	for i := range allEnvs {
		allEnvs[i] = i
	}

	result := &Result{
		Group:    g.Name(),
		Model:    g.Kind(),
		Axis:     e.cfg.Axis,
		Joints:   g.JointNames(),
		Inputs:   make([]float64, 0, e.cfg.Steps),
		Computed: make([][]float64, 0, e.cfg.Steps),
		Applied:  make([][]float64, 0, e.cfg.Steps),
		Metrics:  make(map[string]float64),
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	action := actuators.Actions{
		Positions:  dynamo.Full(envs, n, e.cfg.Target),
		Velocities: dynamo.NewField(envs, n),
		Efforts:    dynamo.Full(envs, n, e.cfg.Effort),
	}
	pos := dynamo.NewField(envs, n)
	vel := dynamo.NewField(envs, n)

	span := (e.cfg.To - e.cfg.From) / float64(e.cfg.Steps-1)
	for i := 0; i < e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		x := e.cfg.From + float64(i)*span
		switch e.cfg.Axis {
		case AxisVelocity:
			fill(vel, x)
		case AxisPosition:
			fill(pos, x)
		}

		if err := e.model.Reset(allEnvs); err != nil {
			return result, err
		}
		if _, err := e.model.Compute(action, pos, vel); err != nil {
			return result, fmt.Errorf("sweep point %d (%s=%g): %w", i, e.cfg.Axis, x, err)
		}

		for _, m := range e.metrics {
			m.Observe(g)
		}

		result.Inputs = append(result.Inputs, x)
		result.Computed = append(result.Computed, append([]float64(nil), g.ComputedEffort.Row(0)...))
		result.Applied = append(result.Applied, append([]float64(nil), g.AppliedEffort.Row(0)...))
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func fill(f *dynamo.Field, v float64) {
	for e := 0; e < f.Envs(); e++ {
		row := f.Row(e)
		for j := range row {
			row[j] = v
		}
	}
}
