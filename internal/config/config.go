package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/actuate/internal/dynamo"
	"github.com/san-kum/actuate/internal/joints"
)

const (
	DefaultNumEnvs = 1
	DefaultDevice  = "cpu"
	DefaultClass   = "passthrough"
)

// Articulation describes one simulated mechanism and its actuator groups.
type Articulation struct {
	Name      string     `yaml:"name"`
	NumEnvs   int        `yaml:"num_envs"`
	Device    string     `yaml:"device,omitempty"`
	Joints    []string   `yaml:"joints"`
	Actuators []Actuator `yaml:"actuators"`
}

// Actuator is the declarative descriptor of one actuator group. Groups only
// read it while being built.
type Actuator struct {
	Name           string   `yaml:"name"`
	Class          string   `yaml:"class,omitempty"`
	JointNamesExpr []string `yaml:"joint_names_expr,omitempty"`
	AllJoints      bool     `yaml:"all_joints,omitempty"`

	EffortLimit   *float64 `yaml:"effort_limit,omitempty"`
	VelocityLimit *float64 `yaml:"velocity_limit,omitempty"`

	Stiffness GainMap `yaml:"stiffness,omitempty"`
	Damping   GainMap `yaml:"damping,omitempty"`

	// dc_motor
	SaturationEffort *float64 `yaml:"saturation_effort,omitempty"`

	// delayed_pd
	MinDelay int   `yaml:"min_delay,omitempty"`
	MaxDelay int   `yaml:"max_delay,omitempty"`
	Seed     int64 `yaml:"seed,omitempty"`
}

func DefaultArticulation() *Articulation {
	return &Articulation{
		Name:    "articulation",
		NumEnvs: DefaultNumEnvs,
		Device:  DefaultDevice,
	}
}

func Load(path string) (*Articulation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Articulation, error) {
	cfg := DefaultArticulation()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Articulation) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Selection returns the joint selection this actuator declares.
func (a Actuator) Selection() joints.Selection {
	if a.AllJoints {
		return joints.AllJoints()
	}
	return joints.Patterns(a.JointNamesExpr...)
}

// NamesExpr renders the configured selection for summaries.
func (a Actuator) NamesExpr() string {
	return a.Selection().String()
}

func (a Actuator) ClassName() string {
	if a.Class == "" {
		return DefaultClass
	}
	return a.Class
}

// Limits returns the configured limits, unbounded where unset.
func (a Actuator) Limits() dynamo.LimitPair {
	limits := dynamo.Unbounded()
	if a.EffortLimit != nil {
		limits.Effort = *a.EffortLimit
	}
	if a.VelocityLimit != nil {
		limits.Velocity = *a.VelocityLimit
	}
	return limits
}

// Validate checks the values that can be judged without a joint list.
func (a Actuator) Validate() error {
	if strings.ContainsAny(a.Name, `/\`) {
		return &dynamo.ConfigError{Field: "name", Patterns: []string{a.Name}, Reason: "group name must not contain path separators"}
	}
	if a.AllJoints && len(a.JointNamesExpr) > 0 {
		return &dynamo.ConfigError{
			Field:    "joint_names_expr",
			Patterns: a.JointNamesExpr,
			Reason:   "all_joints and explicit patterns are exclusive",
		}
	}
	if !a.AllJoints && len(a.JointNamesExpr) == 0 {
		return &dynamo.ConfigError{Field: "joint_names_expr", Reason: "no joint patterns given"}
	}
	if err := nonNegative("effort_limit", a.EffortLimit); err != nil {
		return err
	}
	if err := nonNegative("velocity_limit", a.VelocityLimit); err != nil {
		return err
	}
	if err := nonNegative("saturation_effort", a.SaturationEffort); err != nil {
		return err
	}
	if a.MinDelay < 0 {
		return &dynamo.ConfigError{Field: "min_delay", Value: float64(a.MinDelay), Reason: "must be non-negative"}
	}
	if a.MaxDelay < a.MinDelay {
		return &dynamo.ConfigError{Field: "max_delay", Value: float64(a.MaxDelay), Reason: fmt.Sprintf("must be at least min_delay %d", a.MinDelay)}
	}
	return nil
}

func (c *Articulation) Validate() error {
	if c.NumEnvs < 1 {
		return &dynamo.ConfigError{Field: "num_envs", Value: float64(c.NumEnvs), Reason: "must be positive"}
	}
	if len(c.Joints) == 0 {
		return &dynamo.ConfigError{Field: "joints", Reason: "articulation has no joints"}
	}
	seen := make(map[string]bool, len(c.Joints))
	for _, name := range c.Joints {
		if seen[name] {
			return &dynamo.ConfigError{Field: "joints", Patterns: []string{name}, Reason: "duplicate joint name"}
		}
		seen[name] = true
	}
	for i, a := range c.Actuators {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("actuator %d (%s): %w", i, a.Name, err)
		}
	}
	return nil
}

// Actuator returns the named actuator entry.
func (c *Articulation) Actuator(name string) (Actuator, bool) {
	for _, a := range c.Actuators {
		if a.Name == name {
			return a, true
		}
	}
	return Actuator{}, false
}

func nonNegative(field string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || *v < 0) {
		return &dynamo.ConfigError{Field: field, Value: *v, Reason: "must be non-negative"}
	}
	return nil
}
