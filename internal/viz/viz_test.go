package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/actuate/internal/actuators"
	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/experiment"
)

var testJoints = []string{"hip_left", "hip_right", "knee_left"}

func ptr(v float64) *float64 { return &v }

func hipGroup(t *testing.T, class string) actuators.Model {
	t.Helper()
	m, err := actuators.New(config.Actuator{
		Name:           "hips",
		Class:          class,
		JointNamesExpr: []string{"hip_.*"},
		EffortLimit:    ptr(5),
		Stiffness:      config.Uniform(20),
		MaxDelay:       2,
	}, testJoints, 2)
	if err != nil {
		t.Fatalf("actuators.New() error = %v", err)
	}
	return m
}

func TestRenderGroup(t *testing.T) {
	out := RenderGroup(hipGroup(t, "delayed_pd"), DefaultStyles)

	for _, want := range []string{"hips", "DelayedPD", "hip_left", "hip_right", "∞", "delays", "explicit"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "knee_left") {
		t.Error("summary lists a joint outside the group")
	}
}

func TestRenderGroup_Implicit(t *testing.T) {
	out := RenderGroup(hipGroup(t, "implicit_pd"), DefaultStyles)
	if !strings.Contains(out, "implicit") {
		t.Errorf("expected implicit drive:\n%s", out)
	}
	if strings.Contains(out, "delays") {
		t.Error("implicit PD has no delays")
	}
}

func TestRenderActions_NilFields(t *testing.T) {
	m := hipGroup(t, "ideal_pd")
	g := m.Base()
	out := RenderActions(g, actuators.Actions{}, 0, DefaultStyles)

	if !strings.Contains(out, "-") {
		t.Errorf("nil fields should render as '-':\n%s", out)
	}
	if got := strings.Count(out, "hip_"); got != 2 {
		t.Errorf("expected 2 joint rows, got %d", got)
	}
}

func TestPlotSweep(t *testing.T) {
	r := &experiment.Result{
		Axis:     experiment.AxisVelocity,
		Joints:   []string{"hip"},
		Inputs:   []float64{0, 5, 10},
		Computed: [][]float64{{100}, {100}, {100}},
		Applied:  [][]float64{{80}, {60}, {0}},
	}
	out := PlotSweep(r, 40, 5)
	if !strings.Contains(out, "hip effort vs velocity") {
		t.Errorf("missing caption:\n%s", out)
	}

	if got := PlotSweep(&experiment.Result{}, 40, 5); got != "no sweep points" {
		t.Errorf("empty sweep = %q", got)
	}
}

func TestLoadBar(t *testing.T) {
	s := DefaultStyles
	if got := s.LoadBar(5, math.Inf(1), 10); strings.Contains(got, "█") {
		t.Errorf("unbounded bar should be empty, got %q", got)
	}
	if got := s.LoadBar(-10, 5, 10); strings.Count(got, "█") != 10 {
		t.Errorf("saturated bar should be full, got %q", got)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("missing").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}

func press(m TuneModel, key string) TuneModel {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(TuneModel)
}

func TestTuneModel_AdjustTarget(t *testing.T) {
	m := NewTuneModel(hipGroup(t, "ideal_pd"))

	m = press(m, "up")
	g := m.model.Base()
	if got := g.AppliedEffort.At(0, 0); math.Abs(got-1) > 1e-9 {
		t.Errorf("applied effort = %v, want 1", got)
	}
	if got := g.AppliedEffort.At(1, 0); math.Abs(got-1) > 1e-9 {
		t.Errorf("env 1 applied effort = %v, want 1", got)
	}
	if got := g.AppliedEffort.At(0, 1); got != 0 {
		t.Errorf("untouched joint effort = %v, want 0", got)
	}
}

func TestTuneModel_SelectInputAndJoint(t *testing.T) {
	m := NewTuneModel(hipGroup(t, "ideal_pd"))

	m = press(m, "tab")
	m = press(m, "4")
	for i := 0; i < 10; i++ {
		m = press(m, "up")
	}

	g := m.model.Base()
	if got := g.ComputedEffort.At(0, 1); math.Abs(got-10) > 1e-9 {
		t.Errorf("computed effort = %v, want 10", got)
	}
	if got := g.AppliedEffort.At(0, 1); got != 5 {
		t.Errorf("applied effort = %v, want limit 5", got)
	}
	if name, _ := m.Input(); name != "effort" {
		t.Errorf("selected input = %q, want effort", name)
	}
}

func TestTuneModel_PauseAndView(t *testing.T) {
	m := NewTuneModel(hipGroup(t, "ideal_pd"))
	m = press(m, " ")
	if m.running {
		t.Error("space should pause")
	}

	m = press(m, "t")
	if m.theme != 1 {
		t.Errorf("theme = %d, want 1", m.theme)
	}

	view := m.View()
	for _, want := range []string{"HIPS", "PAUSED", "hip_left"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
