package actuators

import (
	"math/rand"

	"github.com/san-kum/actuate/internal/config"
	"github.com/san-kum/actuate/internal/dynamo"
)

// DelayedPD is an IdealPD that acts on commands issued a few steps ago.
// Each environment draws its delay from [min_delay, max_delay] on reset.
// Until an environment has seen enough steps since its last reset the
// oldest command it has is used.
//
// Unlike the other models, Compute is not idempotent: every call pushes the
// command into the history.
type DelayedPD struct {
	*Group

	minDelay int
	maxDelay int
	rng      *rand.Rand

	delays  []int
	filled  []int
	head    int
	history []Actions
	delayed Actions
}

func NewDelayedPD(cfg config.Actuator, names []string, numEnvs int, opts ...Option) (*DelayedPD, error) {
	g, err := NewGroup("DelayedPD", cfg, names, numEnvs, opts...)
	if err != nil {
		return nil, err
	}

	n := g.NumJoints()
	m := &DelayedPD{
		Group:    g,
		minDelay: cfg.MinDelay,
		maxDelay: cfg.MaxDelay,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		delays:   make([]int, numEnvs),
		filled:   make([]int, numEnvs),
		history:  make([]Actions, cfg.MaxDelay+1),
		delayed:  NewActions(numEnvs, n),
	}
	for i := range m.history {
		m.history[i] = NewActions(numEnvs, n)
	}

	all := make([]int, numEnvs)
	for e := range all {
		all[e] = e
	}
	m.resample(all)
	return m, nil
}

func (m *DelayedPD) IsExplicit() bool { return true }

// Delays returns the current per-environment delay in steps.
func (m *DelayedPD) Delays() []int {
	return append([]int(nil), m.delays...)
}

func (m *DelayedPD) Reset(envIDs []int) error {
	if err := m.Group.Reset(envIDs); err != nil {
		return err
	}
	for _, h := range m.history {
		h.Positions.ZeroRows(envIDs)
		h.Velocities.ZeroRows(envIDs)
		h.Efforts.ZeroRows(envIDs)
	}
	for _, e := range envIDs {
		m.filled[e] = 0
	}
	m.resample(envIDs)
	return nil
}

func (m *DelayedPD) Compute(action Actions, pos, vel *dynamo.Field) (Actions, error) {
	if err := m.CheckInputs(action, pos, vel); err != nil {
		return Actions{}, err
	}

	size := len(m.history)
	m.head = (m.head + 1) % size
	slot := m.history[m.head]
	slot.Positions.CopyFrom(action.Positions)
	slot.Velocities.CopyFrom(action.Velocities)
	slot.Efforts.CopyFrom(action.Efforts)

	for e := 0; e < m.numEnvs; e++ {
		if m.filled[e] < size {
			m.filled[e]++
		}
		lag := m.delays[e]
		if lag > m.filled[e]-1 {
			lag = m.filled[e] - 1
		}
		src := m.history[(m.head-lag+size)%size]
		copy(m.delayed.Positions.Row(e), src.Positions.Row(e))
		copy(m.delayed.Velocities.Row(e), src.Velocities.Row(e))
		copy(m.delayed.Efforts.Row(e), src.Efforts.Row(e))
	}

	m.pdEffort(m.delayed, pos, vel)
	m.clampEffort()

	return Actions{Efforts: m.appliedCopy()}, nil
}

func (m *DelayedPD) resample(envIDs []int) {
	span := m.maxDelay - m.minDelay + 1
	for _, e := range envIDs {
		m.delays[e] = m.minDelay + m.rng.Intn(span)
	}
}
