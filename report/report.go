// Package report stores, plots and prints the outcome of learning runs.
package report

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/metrics"
	"gonum.org/v1/gonum/stat"
)

// Report of one learning run
type Report struct {
	RunID       string                        `json:"run_id"`
	Algorithm   string                        `json:"algorithm"`
	Exploration string                        `json:"exploration"`
	Environment string                        `json:"environment,omitempty"`
	States      int                           `json:"states"`
	Started     time.Time                     `json:"started"`
	Duration    string                        `json:"duration"`
	Summary     Summary                       `json:"summary"`
	Trace       []metrics.Step                `json:"trace"`
	QValues     map[string]map[string]float64 `json:"q_values"`
	Values      map[string]float64            `json:"values,omitempty"`
}

// Summary of the convergence trace
type Summary struct {
	Iterations int     `json:"iterations"`
	Backups    int     `json:"backups"`
	FinalDelta float64 `json:"final_delta"`
	MeanDelta  float64 `json:"mean_delta"`
	StdDelta   float64 `json:"std_delta"`
}

// Run describes how a run was started
type Run struct {
	Exploration mdp.ExplorationStrategy
	Environment string
	Started     time.Time
	Duration    time.Duration
}

// New collects the learned tables of agent over every discovered state of e
func New(agent agents.Agent, e mdp.Environment, run Run) *Report {
	r := &Report{
		RunID:       uuid.New().String(),
		Algorithm:   agent.Name(),
		Exploration: run.Exploration.String(),
		Environment: run.Environment,
		States:      e.NumStates(),
		Started:     run.Started,
		Duration:    run.Duration.String(),
		Trace:       make([]metrics.Step, 0),
		QValues:     make(map[string]map[string]float64),
	}
	if tracer, ok := agent.(agents.Tracer); ok {
		r.Trace = tracer.Trace().Steps()
	}
	r.Summary = summarize(r.Trace)

	valuer, hasValues := agent.(agents.Valuer)
	if hasValues {
		r.Values = make(map[string]float64)
	}
	for _, id := range e.StateIDs() {
		s, ok := e.State(id)
		if !ok {
			continue
		}
		key := strconv.FormatInt(int64(id), 10)
		if q := agent.QValues(s); len(q) > 0 {
			actions := make(map[string]float64, len(q))
			for a, v := range q {
				actions[string(a)] = v
			}
			r.QValues[key] = actions
		}
		if hasValues {
			r.Values[key] = valuer.Value(s)
		}
	}
	return r
}

func summarize(trace []metrics.Step) Summary {
	s := Summary{Iterations: len(trace)}
	if len(trace) == 0 {
		return s
	}
	deltas := make([]float64, len(trace))
	for i, step := range trace {
		deltas[i] = step.Delta
		s.Backups += step.Backups
	}
	s.FinalDelta = deltas[len(deltas)-1]
	if len(deltas) > 1 {
		s.MeanDelta, s.StdDelta = stat.MeanStdDev(deltas, nil)
	} else {
		s.MeanDelta = deltas[0]
	}
	return s
}
