package config

import (
	"sort"

	"github.com/san-kum/actuate/internal/joints"
)

func f(v float64) *float64 { return &v }

var anymalJoints = []string{
	"LF_HAA", "LF_HFE", "LF_KFE",
	"RF_HAA", "RF_HFE", "RF_KFE",
	"LH_HAA", "LH_HFE", "LH_KFE",
	"RH_HAA", "RH_HFE", "RH_KFE",
}

var frankaJoints = []string{
	"panda_joint1", "panda_joint2", "panda_joint3", "panda_joint4",
	"panda_joint5", "panda_joint6", "panda_joint7",
	"panda_finger_joint1", "panda_finger_joint2",
}

var Presets = map[string]*Articulation{
	"anymal_c": {
		Name: "anymal_c", NumEnvs: 4, Device: DefaultDevice,
		Joints: anymalJoints,
		Actuators: []Actuator{{
			Name: "legs", Class: "dc_motor",
			JointNamesExpr:   []string{".*HAA", ".*HFE", ".*KFE"},
			EffortLimit:      f(80.0),
			VelocityLimit:    f(7.5),
			SaturationEffort: f(120.0),
			Stiffness:        Uniform(40.0),
			Damping:          Uniform(5.0),
		}},
	},
	"franka_panda": {
		Name: "franka_panda", NumEnvs: 2, Device: DefaultDevice,
		Joints: frankaJoints,
		Actuators: []Actuator{
			{
				Name: "shoulder", Class: "implicit_pd",
				JointNamesExpr: []string{"panda_joint[1-4]"},
				EffortLimit:    f(87.0),
				VelocityLimit:  f(2.175),
				Stiffness:      Uniform(80.0),
				Damping:        Uniform(4.0),
			},
			{
				Name: "forearm", Class: "implicit_pd",
				JointNamesExpr: []string{"panda_joint[5-7]"},
				EffortLimit:    f(12.0),
				VelocityLimit:  f(2.61),
				Stiffness:      Uniform(80.0),
				Damping:        Uniform(4.0),
			},
			{
				Name: "hand", Class: "ideal_pd",
				JointNamesExpr: []string{"panda_finger_joint.*"},
				EffortLimit:    f(200.0),
				VelocityLimit:  f(0.2),
				Stiffness:      Uniform(2e3),
				Damping:        Uniform(1e2),
			},
		},
	},
	"biped": {
		Name: "biped", NumEnvs: 8, Device: DefaultDevice,
		Joints: []string{"hip_left", "hip_right", "knee_left", "knee_right", "ankle_left", "ankle_right"},
		Actuators: []Actuator{{
			Name: "legs", Class: "delayed_pd",
			JointNamesExpr: []string{"hip_.*", "knee_.*", "ankle_.*"},
			EffortLimit:    f(150.0),
			Stiffness: GainMap{
				{Pattern: "hip_.*", Value: joints.Value(50.0)},
				{Pattern: "hip_left", Value: joints.Value(80.0)},
				{Pattern: "knee_.*", Value: joints.Value(60.0)},
				{Pattern: "ankle_.*", Value: nil},
			},
			Damping:  Uniform(2.0),
			MinDelay: 0,
			MaxDelay: 3,
			Seed:     7,
		}},
	},
}

// GetPreset returns the named preset, or nil. Presets are shared; do not mutate.
func GetPreset(name string) *Articulation {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
