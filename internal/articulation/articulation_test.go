package articulation

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/actuate/internal/actuators"
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
)

func ptr(v float64) *float64 { return &v }

func testConfig() *config.Articulation {
	return &config.Articulation{
		Name:    "biped",
		NumEnvs: 2,
		Device:  "serial",
		Joints:  []string{"hip_left", "hip_right", "knee_left", "knee_right", "tail"},
		Actuators: []config.Actuator{
			{Name: "hips", Class: "implicit_pd", JointNamesExpr: []string{"hip_.*"}, Stiffness: config.Uniform(10)},
			{Name: "knees", Class: "ideal_pd", JointNamesExpr: []string{"knee_.*"}, EffortLimit: ptr(5), Stiffness: config.Uniform(100)},
		},
	}
}

func TestNew(t *testing.T) {
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if len(a.Groups()) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(a.Groups()))
	}
	if got := a.EffortOnlyJoints(); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("EffortOnlyJoints() = %v, want [2 3]", got)
	}
	if got := a.UnactuatedJoints(); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("UnactuatedJoints() = %v, want [4]", got)
	}
	if _, ok := a.Group("knees"); !ok {
		t.Error("expected knees group")
	}
	if !strings.Contains(a.String(), "<class IdealPD>") {
		t.Errorf("summary missing group:\n%s", a.String())
	}
}

func TestNew_OverlappingGroups(t *testing.T) {
	cfg := testConfig()
	cfg.Actuators = append(cfg.Actuators, config.Actuator{Name: "left", JointNamesExpr: []string{".*_left"}})

	_, err := New(cfg)
	if !errors.Is(err, dynamo.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "hip_left") {
		t.Errorf("error should name the contested joint: %v", err)
	}
}

func TestNew_UnknownDevice(t *testing.T) {
	cfg := testConfig()
	cfg.Device = "tpu"
	if _, err := New(cfg); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestCompute_ScatterGather(t *testing.T) {
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	action := actuators.NewActions(2, 5)
	for e := 0; e < 2; e++ {
		for j := 0; j < 5; j++ {
			action.Positions.Set(e, j, float64(j+1))
			action.Velocities.Set(e, j, 0.5)
			action.Efforts.Set(e, j, 1)
		}
	}
	pos := dynamo.NewField(2, 5)
	vel := dynamo.NewField(2, 5)

	out, err := a.Compute(action, pos, vel)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// hips (implicit): effort = 10*q + 0 + 1, targets forwarded
	// knees (ideal): effort = 100*q + 1 clamped to 5, no position targets
	// tail: untouched
	wantEff := []float64{11, 21, 5, 5, 1}
	wantPos := []float64{1, 2, 0, 0, 5}
	wantVel := []float64{0.5, 0.5, 0, 0, 0.5}
	for e := 0; e < 2; e++ {
		for j := 0; j < 5; j++ {
			if out.Efforts.At(e, j) != wantEff[j] {
				t.Errorf("effort[%d][%d] = %v, want %v", e, j, out.Efforts.At(e, j), wantEff[j])
			}
			if out.Positions.At(e, j) != wantPos[j] {
				t.Errorf("position[%d][%d] = %v, want %v", e, j, out.Positions.At(e, j), wantPos[j])
			}
			if out.Velocities.At(e, j) != wantVel[j] {
				t.Errorf("velocity[%d][%d] = %v, want %v", e, j, out.Velocities.At(e, j), wantVel[j])
			}
		}
	}

	if action.Positions.At(0, 2) != 3 {
		t.Error("input action modified")
	}
}

func TestCompute_ShapeMismatch(t *testing.T) {
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = a.Compute(actuators.NewActions(2, 4), dynamo.NewField(2, 4), dynamo.NewField(2, 4))
	if !errors.Is(err, dynamo.ErrShapeMismatch) {
		t.Errorf("expected shape error, got %v", err)
	}
}

func TestReset(t *testing.T) {
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	action := actuators.NewActions(2, 5)
	action.Efforts = dynamo.Full(2, 5, 2)
	if _, err := a.Compute(action, dynamo.NewField(2, 5), dynamo.NewField(2, 5)); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if err := a.Reset([]int{0}); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	for _, m := range a.Groups() {
		g := m.Base()
		for j := 0; j < g.NumJoints(); j++ {
			if g.AppliedEffort.At(0, j) != 0 {
				t.Errorf("%s env 0 joint %d not reset", g.Name(), j)
			}
			if g.AppliedEffort.At(1, j) != 2 {
				t.Errorf("%s env 1 joint %d = %v, want 2", g.Name(), j, g.AppliedEffort.At(1, j))
			}
		}
	}

	if err := a.Reset([]int{7}); !errors.Is(err, dynamo.ErrShapeMismatch) {
		t.Errorf("expected shape error for unknown env, got %v", err)
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range config.ListPresets() {
		t.Run(name, func(t *testing.T) {
			if _, err := New(config.GetPreset(name)); err != nil {
				t.Errorf("preset %s: %v", name, err)
			}
		})
	}
}
