package config

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/actuate/internal/dynamo"
)

const anymalYAML = `
name: anymal
num_envs: 4
joints: [LF_HAA, LF_HFE, LF_KFE, RF_HAA, RF_HFE, RF_KFE]
actuators:
  - name: legs
    class: dc_motor
    joint_names_expr: [".*_HAA", ".*_HFE"]
    effort_limit: 80
    velocity_limit: 7.5
    saturation_effort: 120
    stiffness:
      "LF_.*": 45.0
      ".*": 40.0
      "RF_HFE": null
    damping: 1.5
`

func TestDefaultArticulation(t *testing.T) {
	cfg := DefaultArticulation()

	if cfg.NumEnvs != DefaultNumEnvs {
		t.Errorf("expected %d envs, got %d", DefaultNumEnvs, cfg.NumEnvs)
	}
	if cfg.Device != "cpu" {
		t.Errorf("expected device cpu, got %s", cfg.Device)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(anymalYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.NumEnvs != 4 {
		t.Errorf("expected 4 envs, got %d", cfg.NumEnvs)
	}
	if cfg.Device != DefaultDevice {
		t.Errorf("expected default device, got %q", cfg.Device)
	}
	if len(cfg.Actuators) != 1 {
		t.Fatalf("expected 1 actuator, got %d", len(cfg.Actuators))
	}

	a := cfg.Actuators[0]
	if a.ClassName() != "dc_motor" {
		t.Errorf("expected dc_motor, got %s", a.ClassName())
	}
	limits := a.Limits()
	if limits.Effort != 80 || limits.Velocity != 7.5 {
		t.Errorf("unexpected limits %+v", limits)
	}
	if a.SaturationEffort == nil || *a.SaturationEffort != 120 {
		t.Errorf("unexpected saturation effort %v", a.SaturationEffort)
	}
}

func TestGainMap_KeepsDocumentOrder(t *testing.T) {
	cfg, err := Parse([]byte(anymalYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	stiffness := cfg.Actuators[0].Stiffness.Values()
	wantPatterns := []string{"LF_.*", ".*", "RF_HFE"}
	if len(stiffness) != len(wantPatterns) {
		t.Fatalf("expected %d entries, got %d", len(wantPatterns), len(stiffness))
	}
	for i, p := range wantPatterns {
		if stiffness[i].Pattern != p {
			t.Errorf("entry %d pattern = %q, want %q", i, stiffness[i].Pattern, p)
		}
	}
	if stiffness[0].Value == nil || *stiffness[0].Value != 45 {
		t.Errorf("entry 0 value = %v, want 45", stiffness[0].Value)
	}
	if stiffness[2].Value != nil {
		t.Errorf("null entry should have nil value, got %v", *stiffness[2].Value)
	}

	damping := cfg.Actuators[0].Damping.Values()
	if len(damping) != 1 || damping[0].Pattern != ".*" || *damping[0].Value != 1.5 {
		t.Errorf("scalar damping should expand to a uniform entry, got %+v", damping)
	}
}

func TestGainMap_Absent(t *testing.T) {
	cfg, err := Parse([]byte("joints: [a]\nactuators:\n  - name: x\n    all_joints: true\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Actuators[0].Stiffness.Values() != nil {
		t.Error("absent stiffness should be nil")
	}
	if !cfg.Actuators[0].Selection().IsAll() {
		t.Error("expected all-joints selection")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biped.yaml")
	if err := Save(path, GetPreset("biped")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	stiffness := cfg.Actuators[0].Stiffness.Values()
	if len(stiffness) != 4 {
		t.Fatalf("expected 4 stiffness entries, got %d", len(stiffness))
	}
	if stiffness[1].Pattern != "hip_left" || *stiffness[1].Value != 80 {
		t.Errorf("entry order lost: %+v", stiffness[1])
	}
	if stiffness[3].Value != nil {
		t.Error("null entry should survive a round trip")
	}
}

func TestActuatorValidate(t *testing.T) {
	neg := -1.0
	nan := math.NaN()
	tests := []struct {
		name string
		a    Actuator
		ok   bool
	}{
		{"valid", Actuator{JointNamesExpr: []string{".*"}}, true},
		{"all joints", Actuator{AllJoints: true}, true},
		{"no patterns", Actuator{}, false},
		{"both selections", Actuator{AllJoints: true, JointNamesExpr: []string{"a"}}, false},
		{"negative effort", Actuator{JointNamesExpr: []string{".*"}, EffortLimit: &neg}, false},
		{"negative velocity", Actuator{JointNamesExpr: []string{".*"}, VelocityLimit: &neg}, false},
		{"negative saturation", Actuator{JointNamesExpr: []string{".*"}, SaturationEffort: &neg}, false},
		{"inverted delays", Actuator{JointNamesExpr: []string{".*"}, MinDelay: 3, MaxDelay: 1}, false},
		{"NaN effort", Actuator{JointNamesExpr: []string{".*"}, EffortLimit: &nan}, false},
		{"NaN velocity", Actuator{JointNamesExpr: []string{".*"}, VelocityLimit: &nan}, false},
		{"NaN saturation", Actuator{JointNamesExpr: []string{".*"}, SaturationEffort: &nan}, false},
		{"slash in name", Actuator{Name: "arm/left", JointNamesExpr: []string{".*"}}, false},
		{"backslash in name", Actuator{Name: `arm\left`, JointNamesExpr: []string{".*"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, dynamo.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestValidate_ErrorCarriesValue(t *testing.T) {
	neg := -2.5
	err := Actuator{JointNamesExpr: []string{".*"}, EffortLimit: &neg}.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	want := "dynamo: effort_limit: must be non-negative (value -2.5)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestArticulationValidate(t *testing.T) {
	cfg := DefaultArticulation()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for articulation without joints")
	}

	cfg.Joints = []string{"a", "a"}
	if err := cfg.Validate(); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected duplicate joint error, got %v", err)
	}

	cfg.Joints = []string{"a", "b"}
	cfg.NumEnvs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero envs")
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}
