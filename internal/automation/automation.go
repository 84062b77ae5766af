// Package automation runs scripted batches of sweeps from YAML.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/actuate/internal/articulation"
	"github.com/san-kum/actuate/internal/experiment"
	"github.com/san-kum/actuate/internal/metrics"
	"github.com/san-kum/actuate/internal/storage"
)

// Scenario defines a scripted sequence of sweeps over one articulation.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep sweeps one group. Unset range fields take the sweep
// defaults.
type ScenarioStep struct {
	Group  string   `yaml:"group"`
	Axis   string   `yaml:"axis"`
	From   *float64 `yaml:"from"`
	To     *float64 `yaml:"to"`
	Steps  int      `yaml:"steps"`
	Target float64  `yaml:"target"`
	Effort float64  `yaml:"effort"`
}

func (s ScenarioStep) Config() experiment.Config {
	cfg := experiment.DefaultConfig()
	if s.Axis != "" {
		cfg.Axis = s.Axis
	}
	if s.From != nil {
		cfg.From = *s.From
	}
	if s.To != nil {
		cfg.To = *s.To
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	cfg.Target = s.Target
	cfg.Effort = s.Effort
	return cfg
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepResult is one finished step. RunID is empty when nothing was stored.
type StepResult struct {
	Step   ScenarioStep
	RunID  string
	Result *experiment.Result
}

// RunScenario executes all steps in order against art. Each result is
// stored when st is non-nil. Steps completed before a failure are returned
// with the error.
func RunScenario(ctx context.Context, scenario *Scenario, art *articulation.Articulation, st *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "group", step.Group)

		m, ok := art.Group(step.Group)
		if !ok {
			return results, fmt.Errorf("step %d: unknown group %q", i+1, step.Group)
		}

		exp := experiment.New(step.Config())
		if err := exp.Setup(m, metrics.Defaults()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if st != nil {
			runID, err := st.Save(art.Name(), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = runID
		}
		results = append(results, sr)
	}

	return results, nil
}
