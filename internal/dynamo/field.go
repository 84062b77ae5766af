package dynamo

import (
	"fmt"
	"math"
)

// Field is a per-environment, per-joint buffer stored row-major with shape
// (envs, joints). Row e holds every joint value of environment e.
type Field struct {
	envs   int
	joints int
	data   []float64
}

func NewField(envs, joints int) *Field {
	if envs < 0 {
		envs = 0
	}
	if joints < 0 {
		joints = 0
	}
	return &Field{
		envs:   envs,
		joints: joints,
		data:   make([]float64, envs*joints),
	}
}

// FieldFrom builds a field from rows. All rows must have the same length.
func FieldFrom(rows [][]float64) (*Field, error) {
	if len(rows) == 0 {
		return NewField(0, 0), nil
	}
	f := NewField(len(rows), len(rows[0]))
	for e, row := range rows {
		if len(row) != f.joints {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, e, len(row), f.joints)
		}
		copy(f.data[e*f.joints:], row)
	}
	return f, nil
}

// Full returns a field with every element set to v.
func Full(envs, joints int, v float64) *Field {
	f := NewField(envs, joints)
	for i := range f.data {
		f.data[i] = v
	}
	return f
}

func (f *Field) Envs() int   { return f.envs }
func (f *Field) Joints() int { return f.joints }
func (f *Field) Len() int    { return len(f.data) }

func (f *Field) At(env, joint int) float64 {
	return f.data[env*f.joints+joint]
}

func (f *Field) Set(env, joint int, v float64) {
	f.data[env*f.joints+joint] = v
}

// Row returns a view of environment env. Writes go through to the field.
func (f *Field) Row(env int) []float64 {
	return f.data[env*f.joints : (env+1)*f.joints]
}

// Column returns a copy of joint j across all environments.
func (f *Field) Column(joint int) []float64 {
	col := make([]float64, f.envs)
	for e := 0; e < f.envs; e++ {
		col[e] = f.data[e*f.joints+joint]
	}
	return col
}

// FillColumn broadcasts v to joint j in every environment.
func (f *Field) FillColumn(joint int, v float64) {
	for e := 0; e < f.envs; e++ {
		f.data[e*f.joints+joint] = v
	}
}

// ZeroRows clears the listed environments and leaves the rest untouched.
func (f *Field) ZeroRows(envIDs []int) {
	for _, e := range envIDs {
		row := f.Row(e)
		for j := range row {
			row[j] = 0
		}
	}
}

func (f *Field) Zero() {
	for i := range f.data {
		f.data[i] = 0
	}
}

// CopyFrom overwrites f with src. Shapes must match.
func (f *Field) CopyFrom(src *Field) error {
	if !f.SameShape(src) {
		return fmt.Errorf("%w: copy (%d, %d) into (%d, %d)", ErrShapeMismatch, src.envs, src.joints, f.envs, f.joints)
	}
	copy(f.data, src.data)
	return nil
}

func (f *Field) Clone() *Field {
	c := &Field{envs: f.envs, joints: f.joints, data: make([]float64, len(f.data))}
	copy(c.data, f.data)
	return c
}

func (f *Field) SameShape(other *Field) bool {
	return other != nil && f.envs == other.envs && f.joints == other.joints
}

func (f *Field) HasShape(envs, joints int) bool {
	return f.envs == envs && f.joints == joints
}

// IsValid reports whether every element is finite.
func (f *Field) IsValid() bool {
	for _, v := range f.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Rows returns a copy of the field as nested slices.
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.envs)
	for e := range rows {
		rows[e] = append([]float64(nil), f.Row(e)...)
	}
	return rows
}

// Equal reports element-wise equality.
func (f *Field) Equal(other *Field) bool {
	if !f.SameShape(other) {
		return false
	}
	for i, v := range f.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

func (f *Field) String() string {
	return fmt.Sprintf("Field(%d, %d)%v", f.envs, f.joints, f.Rows())
}

// Clamp limits v to [-limit, limit]. An infinite limit leaves v unchanged.
func Clamp(v, limit float64) float64 {
	return ClampRange(v, -limit, limit)
}

func ClampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
