package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for actuator groups.
var (
	// ErrConfiguration indicates an actuator configuration that cannot be built.
	ErrConfiguration = errors.New("dynamo: invalid actuator configuration")

	// ErrShapeMismatch indicates a buffer whose shape disagrees with the group.
	ErrShapeMismatch = errors.New("dynamo: buffer shape mismatch")

	// ErrUnknownModel indicates an actuator class with no registered model.
	ErrUnknownModel = errors.New("dynamo: unknown actuator model")
)

// ConfigError carries the offending configuration value.
type ConfigError struct {
	Field    string
	Patterns []string
	Value    float64
	Reason   string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("dynamo: ")
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	switch {
	case len(e.Patterns) > 0:
		fmt.Fprintf(&b, " (patterns %q)", e.Patterns)
	case e.Field != "":
		fmt.Fprintf(&b, " (value %g)", e.Value)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// ShapeError describes a buffer that does not match (envs, joints).
type ShapeError struct {
	Name       string
	WantEnvs   int
	WantJoints int
	GotEnvs    int
	GotJoints  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("dynamo: %s has shape (%d, %d), want (%d, %d)",
		e.Name, e.GotEnvs, e.GotJoints, e.WantEnvs, e.WantJoints)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// CheckShape returns a ShapeError when f is nil or not (envs, joints).
func CheckShape(name string, f *Field, envs, joints int) error {
	if f == nil {
		return &ShapeError{Name: name, WantEnvs: envs, WantJoints: joints, GotEnvs: -1, GotJoints: -1}
	}
	if !f.HasShape(envs, joints) {
		return &ShapeError{Name: name, WantEnvs: envs, WantJoints: joints, GotEnvs: f.envs, GotJoints: f.joints}
	}
	return nil
}
