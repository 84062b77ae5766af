// Package optim searches actuator gains over a grid of candidates.
package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/actuate/internal/experiment"
)

// Param is one searched parameter and the values it takes.
type Param struct {
	Name   string
	Values []float64
}

// Build returns a ready experiment for one candidate. Each call must
// build its own model so candidates can run concurrently.
type Build func(params map[string]float64) (*experiment.Experiment, error)

type Candidate struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	params  []Param
	workers int
}

func NewGridSearch(params []Param) *GridSearch {
	return &GridSearch{params: params, workers: runtime.NumCPU()}
}

// SetWorkers bounds the number of candidates evaluated at once.
func (g *GridSearch) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	g.workers = n
}

// Candidates enumerates the grid in parameter order, last parameter
// varying fastest.
func (g *GridSearch) Candidates() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.params) {
		c := make(map[string]float64, len(current))
		for k, v := range current {
			c[k] = v
		}
		*out = append(*out, c)
		return
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, p.Name)
}

// Search runs every candidate and returns them ordered by metricName,
// lowest first. Ties keep grid order. The first failing candidate
// cancels the rest.
func (g *GridSearch) Search(ctx context.Context, build Build, metricName string) ([]Candidate, error) {
	for _, p := range g.params {
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", p.Name)
		}
	}

	grid := g.Candidates()
	results := make([]Candidate, len(grid))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, params := range grid {
		i, params := i, params
		eg.Go(func() error {
			exp, err := build(params)
			if err != nil {
				return fmt.Errorf("candidate %v: %w", params, err)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("candidate %v: %w", params, err)
			}
			val, ok := result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("metric %s not recorded", metricName)
			}
			if math.IsNaN(val) {
				val = math.Inf(1)
			}
			results[i] = Candidate{Params: params, Value: val}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Value < results[b].Value })
	return results, nil
}
