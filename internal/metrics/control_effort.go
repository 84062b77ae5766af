package metrics

import (
	"math"

	"github.com/san-kum/actuate/internal/actuators"
)

// Metric accumulates a scalar over successive compute calls of a group.
type Metric interface {
	Name() string
	Observe(g *actuators.Group)
	Value() float64
	Reset()
}

// ControlEffort is the mean absolute applied effort per element.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(g *actuators.Group) {
	f := g.AppliedEffort
	for e := 0; e < f.Envs(); e++ {
		for _, val := range f.Row(e) {
			c.sum += math.Abs(val)
			c.samples++
		}
	}
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Saturation is the fraction of elements where limits changed the effort.
type Saturation struct {
	clipped int
	samples int
}

func NewSaturation() *Saturation {
	return &Saturation{}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) Observe(g *actuators.Group) {
	for e := 0; e < g.NumEnvs(); e++ {
		computed, applied := g.ComputedEffort.Row(e), g.AppliedEffort.Row(e)
		for j := range applied {
			if computed[j] != applied[j] {
				s.clipped++
			}
			s.samples++
		}
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.clipped) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.clipped = 0
	s.samples = 0
}

// PeakEffort is the largest absolute applied effort seen.
type PeakEffort struct {
	peak float64
}

func NewPeakEffort() *PeakEffort {
	return &PeakEffort{}
}

func (p *PeakEffort) Name() string { return "peak_effort" }

func (p *PeakEffort) Observe(g *actuators.Group) {
	for e := 0; e < g.NumEnvs(); e++ {
		for _, v := range g.AppliedEffort.Row(e) {
			p.peak = math.Max(p.peak, math.Abs(v))
		}
	}
}

func (p *PeakEffort) Value() float64 { return p.peak }
func (p *PeakEffort) Reset()         { p.peak = 0 }

// Defaults returns the metrics recorded for every sweep.
func Defaults() []Metric {
	return []Metric{
		NewControlEffort(),
		NewSaturation(),
		NewPeakEffort(),
	}
}
