package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/actuate/internal/experiment"
)

func sampleResult() *experiment.Result {
	return &experiment.Result{
		Group:    "legs",
		Model:    "DCMotor",
		Axis:     experiment.AxisVelocity,
		Joints:   []string{"hip", "knee"},
		Inputs:   []float64{0, 5},
		Computed: [][]float64{{100, -100}, {100, -100}},
		Applied:  [][]float64{{80, -80}, {60, -80}},
		Metrics:  map[string]float64{"saturation": 1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("anymal", sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "legs_") {
		t.Errorf("run id %q should start with the group name", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Articulation != "anymal" || meta.Model != "DCMotor" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", meta.Steps)
	}
	if meta.Metrics["saturation"] != 1 {
		t.Errorf("expected saturation 1, got %f", meta.Metrics["saturation"])
	}

	sweep, err := st.LoadSweep(runID)
	if err != nil {
		t.Fatalf("load sweep failed: %v", err)
	}
	if len(sweep.Inputs) != 2 {
		t.Fatalf("expected 2 points, got %d", len(sweep.Inputs))
	}
	if sweep.Applied[1][0] != 60 || sweep.Applied[1][1] != -80 {
		t.Errorf("applied row = %v, want [60 -80]", sweep.Applied[1])
	}
	if sweep.Computed[0][1] != -100 {
		t.Errorf("computed row = %v", sweep.Computed[0])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save("anymal", sampleResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids should be unique")
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("anymal", sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, sweepFile} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, runID, sweepFile))
	if err != nil {
		t.Fatalf("read sweep failed: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != "velocity,computed_hip,computed_knee,applied_hip,applied_knee" {
		t.Errorf("unexpected header %q", header)
	}
}

func TestLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestRunPrefix(t *testing.T) {
	tests := []struct {
		group string
		want  string
	}{
		{"legs", "legs"},
		{"arm/left", "arm_left"},
		{`arm\left`, "arm_left"},
		{"../escape", ".._escape"},
		{"..", "run"},
		{"", "run"},
		{"front legs", "front_legs"},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			if got := runPrefix(tt.group); got != tt.want {
				t.Errorf("runPrefix(%q) = %q, want %q", tt.group, got, tt.want)
			}
		})
	}
}

func TestStoreSave_GroupWithSeparators(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := sampleResult()
	result.Group = "arm/left"
	runID, err := st.Save("anymal", result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if strings.ContainsAny(runID, `/\`) {
		t.Errorf("run id %q should be a single path element", runID)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 listed run, got %d", len(runs))
	}
	if runs[0].ID != runID || runs[0].Group != "arm/left" {
		t.Errorf("listed run = %s/%s, want %s/arm/left", runs[0].ID, runs[0].Group, runID)
	}
}

func TestWriteFiles_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent", "file")

	if err := writeJSON(missing, sampleResult()); err == nil {
		t.Error("writeJSON should fail when the directory is missing")
	}
	if err := writeSweep(missing, sampleResult()); err == nil {
		t.Error("writeSweep should fail when the directory is missing")
	}
	if err := writeJSON(filepath.Join(t.TempDir(), "meta.json"), func() {}); err == nil {
		t.Error("writeJSON should fail on an unencodable value")
	}
}
