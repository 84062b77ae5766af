package joints

import (
	"regexp"

	"github.com/san-kum/actuate/internal/dynamo"
)

// PatternValue assigns Value to every joint whose name fully matches
// Pattern. A nil Value is a placeholder and assigns nothing.
type PatternValue struct {
	Pattern string
	Value   *float64
}

// PatternValues is applied in slice order.
type PatternValues []PatternValue

// Value returns a pointer to v for building PatternValues literals.
func Value(v float64) *float64 {
	return &v
}

func (pv PatternValues) Patterns() []string {
	patterns := make([]string, len(pv))
	for i, e := range pv {
		patterns[i] = e.Pattern
	}
	return patterns
}

// Overlay writes pv onto buf, one column per entry of names. For each joint
// the entries are visited in order, so a later match overrides an earlier
// one for that joint only. Columns no entry touches keep their value.
func Overlay(buf *dynamo.Field, names []string, pv PatternValues) error {
	if pv == nil {
		return nil
	}
	if buf.Joints() != len(names) {
		return &dynamo.ShapeError{
			Name:       "overlay buffer",
			WantEnvs:   buf.Envs(),
			WantJoints: len(names),
			GotEnvs:    buf.Envs(),
			GotJoints:  buf.Joints(),
		}
	}

	compiled := make([]*regexp.Regexp, len(pv))
	for i, e := range pv {
		re, err := Compile(e.Pattern)
		if err != nil {
			return err
		}
		compiled[i] = re
	}

	for i, name := range names {
		for k, e := range pv {
			if e.Value == nil || !compiled[k].MatchString(name) {
				continue
			}
			buf.FillColumn(i, *e.Value)
		}
	}
	return nil
}
