package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/actuate/internal/actuators"
	"github.com/san-kum/actuate/internal/dynamo"
	"github.com/san-kum/actuate/internal/experiment"
)

func formatLimit(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", v)
}

func indicesString(g *actuators.Group) string {
	if g.AllJoints() {
		return "all"
	}
	return fmt.Sprint(g.JointIndices())
}

// RenderGroup draws a summary card of m: its joints with the gains of
// environment 0, the limits, and model specific parameters.
func RenderGroup(m actuators.Model, s Styles) string {
	g := m.Base()

	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("%s  %s", g.Name(), g.Kind())) + "\n")
	b.WriteString(s.Label.Render("envs") + s.Value.Render(fmt.Sprint(g.NumEnvs())) + "\n")
	b.WriteString(s.Label.Render("indices") + s.Value.Render(indicesString(g)) + "\n")
	b.WriteString(s.Label.Render("effort") + s.Value.Render(formatLimit(g.Limits.Effort)) + "\n")
	b.WriteString(s.Label.Render("velocity") + s.Value.Render(formatLimit(g.Limits.Velocity)) + "\n")

	if dc, ok := m.(interface{ SaturationEffort() float64 }); ok {
		b.WriteString(s.Label.Render("saturation") + s.Value.Render(formatLimit(dc.SaturationEffort())) + "\n")
	}
	if d, ok := m.(interface{ Delays() []int }); ok {
		b.WriteString(s.Label.Render("delays") + s.Value.Render(fmt.Sprint(d.Delays())) + "\n")
	}
	if ex, ok := m.(actuators.Explicit); ok && ex.IsExplicit() {
		b.WriteString(s.Label.Render("drive") + s.Value.Render("explicit") + "\n")
	} else {
		b.WriteString(s.Label.Render("drive") + s.Value.Render("implicit") + "\n")
	}

	b.WriteString("\n" + s.Header.Render(fmt.Sprintf("%-16s %10s %10s", "JOINT", "STIFFNESS", "DAMPING")) + "\n")
	stiff, damp := g.Stiffness.Row(0), g.Damping.Row(0)
	for j, name := range g.JointNames() {
		b.WriteString(fmt.Sprintf("%-16s %10.3f %10.3f\n", name, stiff[j], damp[j]))
	}

	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderActions draws env's row of the engine inputs next to the group's
// computed and applied effort. Nil fields are shown as "-".
func RenderActions(g *actuators.Group, out actuators.Actions, env int, s Styles) string {
	cell := func(row []float64, j int) string {
		if row == nil {
			return fmt.Sprintf("%10s", "-")
		}
		return fmt.Sprintf("%10.3f", row[j])
	}
	row := func(f *dynamo.Field) []float64 {
		if f == nil {
			return nil
		}
		return f.Row(env)
	}
	positions, velocities, efforts := row(out.Positions), row(out.Velocities), row(out.Efforts)

	var b strings.Builder
	b.WriteString(s.Header.Render(fmt.Sprintf("%-16s %10s %10s %10s %10s %10s",
		"JOINT", "POS", "VEL", "EFFORT", "COMPUTED", "APPLIED")) + "\n")

	computed, applied := g.ComputedEffort.Row(env), g.AppliedEffort.Row(env)
	for j, name := range g.JointNames() {
		b.WriteString(fmt.Sprintf("%-16s %s %s %s %10.3f %10.3f %s\n",
			name,
			cell(positions, j),
			cell(velocities, j),
			cell(efforts, j),
			computed[j],
			applied[j],
			s.LoadBar(applied[j], g.Limits.Effort, 10),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

// PlotSweep charts computed and applied effort of every joint in r
// against the swept input.
func PlotSweep(r *experiment.Result, width, height int) string {
	if len(r.Inputs) == 0 {
		return "no sweep points"
	}

	charts := make([]string, 0, len(r.Joints))
	for j, name := range r.Joints {
		computed := make([]float64, len(r.Computed))
		for i, row := range r.Computed {
			computed[i] = row[j]
		}

		caption := fmt.Sprintf("%s effort vs %s [%g, %g]", name, r.Axis, r.Inputs[0], r.Inputs[len(r.Inputs)-1])
		graph := asciigraph.PlotMany([][]float64{computed, r.Column(j)},
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.SeriesColors(asciigraph.Default, asciigraph.Green),
			asciigraph.Caption(caption),
		)
		charts = append(charts, graph)
	}
	return strings.Join(charts, "\n\n")
}

// RenderMetrics lists metric values in name order.
func RenderMetrics(values map[string]float64, order []string, s Styles) string {
	lines := make([]string, 0, len(order))
	for _, name := range order {
		v, ok := values[name]
		if !ok {
			continue
		}
		lines = append(lines, s.Label.Render(name)+s.Value.Render(fmt.Sprintf("%.4f", v)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
