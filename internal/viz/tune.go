package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/actuate/internal/actuators"
	"github.com/san-kum/actuate/internal/dynamo"
)

const (
	tuneHistory = 120
	tuneRate    = time.Second / 20
)

var inputNames = []string{"target", "position", "velocity", "effort"}

var inputSteps = map[string]float64{
	"target":   0.05,
	"position": 0.05,
	"velocity": 0.5,
	"effort":   1.0,
}

type TickMsg time.Time

// TuneModel drives one actuator group from keyboard-set inputs and shows
// the effort it produces in environment 0. Every environment receives the
// same inputs.
type TuneModel struct {
	model   actuators.Model
	action  actuators.Actions
	pos     *dynamo.Field
	vel     *dynamo.Field
	out     actuators.Actions
	history []float64

	joint   int
	input   int
	running bool
	theme   int
	styles  Styles
	err     error
}

func NewTuneModel(m actuators.Model) TuneModel {
	g := m.Base()
	envs, n := g.NumEnvs(), g.NumJoints()
	t := TuneModel{
		model:   m,
		action:  actuators.NewActions(envs, n),
		pos:     dynamo.NewField(envs, n),
		vel:     dynamo.NewField(envs, n),
		history: make([]float64, 0, tuneHistory),
		running: true,
		styles:  DefaultStyles,
	}
	t.step()
	return t
}

func (m *TuneModel) SetTheme(t Theme) {
	for i, th := range Themes {
		if th.Name == t.Name {
			m.theme = i
		}
	}
	m.styles = NewStyles(t)
}

func tick() tea.Cmd {
	return tea.Tick(tuneRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m TuneModel) Init() tea.Cmd {
	return tick()
}

func (m TuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.joint = (m.joint + 1) % m.model.Base().NumJoints()
			m.history = m.history[:0]
		case "1", "2", "3", "4":
			m.input = int(msg.String()[0] - '1')
		case "up", "k":
			m.adjust(1)
			m.step()
		case "down", "j":
			m.adjust(-1)
			m.step()
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = NewStyles(Themes[m.theme])
		}
		return m, nil
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// Input returns the field edited by the selected input.
func (m *TuneModel) Input() (string, *dynamo.Field) {
	name := inputNames[m.input]
	switch name {
	case "target":
		return name, m.action.Positions
	case "position":
		return name, m.pos
	case "velocity":
		return name, m.vel
	}
	return name, m.action.Efforts
}

func (m *TuneModel) adjust(dir float64) {
	name, f := m.Input()
	v := f.At(0, m.joint) + dir*inputSteps[name]
	f.FillColumn(m.joint, v)
}

func (m *TuneModel) step() {
	out, err := m.model.Compute(m.action, m.pos, m.vel)
	m.err = err
	if err != nil {
		return
	}
	m.out = out
	m.history = append(m.history, m.model.Base().AppliedEffort.At(0, m.joint))
	if len(m.history) > tuneHistory {
		m.history = m.history[1:]
	}
}

func (m *TuneModel) reset() {
	if err := m.model.Reset([]int{0}); err != nil {
		m.err = err
		return
	}
	m.history = m.history[:0]
}

func (m TuneModel) View() string {
	g := m.model.Base()
	s := m.styles

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(strings.ToUpper(g.Name())) + "  " + s.Subtle.Render(status) + "\n\n")

	b.WriteString(s.Label.Render("joint") + s.Selected.Render(g.JointNames()[m.joint]) + "\n")
	for i, name := range inputNames {
		f := []*dynamo.Field{m.action.Positions, m.pos, m.vel, m.action.Efforts}[i]
		line := s.Label.Render(name) + s.Value.Render(fmt.Sprintf("%.3f", f.At(0, m.joint)))
		if i == m.input {
			line = s.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + s.High.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + RenderActions(g, m.out, 0, s) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Caption("applied effort (env 0)"),
		)
		b.WriteString("\n" + chart + "\n")
	}

	b.WriteString("\n" + s.Separator(40) + "\n")
	b.WriteString(s.KeyHint.Render("TAB:Joint 1-4:Input ↑↓:Adjust SP:Pause R:Reset T:Theme Q:Quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
