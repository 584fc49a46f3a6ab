// Package agents implements planning and learning algorithms over an
// mdp.Environment.
package agents

import (
	"errors"
	"math"
	"time"

	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/metrics"
)

var (
	ErrNoEnvironment  = errors.New("no environment")
	ErrInvalidGamma   = errors.New("invalid value for gamma")
	ErrInvalidTeta    = errors.New("invalid value for teta")
	ErrInvalidBudget  = errors.New("invalid budget")
	ErrInvalidEpsilon = errors.New("invalid value for epsilon")
	ErrInvalidAlpha   = errors.New("invalid value for alpha")
	ErrInvalidKappa   = errors.New("invalid value for kappa")
)

// Agent learns Q-values over an environment
type Agent interface {
	// Name returns the algorithm identifier
	Name() string
	// Learn runs the algorithm to completion or until its budget is spent.
	// Only environment failures are returned.
	Learn(mdp.ExplorationStrategy) error
	// QValues returns the learned Q-values of the state's actions. Empty
	// when nothing is known about the state.
	QValues(mdp.State) map[mdp.ActionID]float64
}

// Valuer is implemented by agents maintaining a state value table
type Valuer interface {
	Value(mdp.State) float64
}

// Tracer is implemented by agents recording a convergence trace
type Tracer interface {
	Trace() *metrics.Trace
}

// BaseConfig holds the parameters shared by all agents
type BaseConfig struct {
	// Gamma discount factor in (0,1]
	Gamma float64
	// Teta convergence threshold, >= 0
	Teta float64
	// Logger defaults to log.DefaultLogger
	Logger *log.Logger
	// Recorder exports metrics when not nil
	Recorder *metrics.Recorder
}

type base struct {
	name  string
	gamma float64
	teta  float64

	env      mdp.Environment
	q        *mdp.QTable
	trace    *metrics.Trace
	recorder *metrics.Recorder

	Logger *log.Logger
}

func newBase(name string, env mdp.Environment, c BaseConfig) (*base, error) {
	if env == nil {
		return nil, ErrNoEnvironment
	}
	if math.IsNaN(c.Gamma) || c.Gamma <= 0 || c.Gamma > 1 {
		return nil, ErrInvalidGamma
	}
	if math.IsNaN(c.Teta) || c.Teta < 0 {
		return nil, ErrInvalidTeta
	}
	logger := c.Logger
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &base{
		name:     name,
		gamma:    c.Gamma,
		teta:     c.Teta,
		env:      env,
		q:        mdp.NewQTable(),
		trace:    metrics.NewTrace(),
		recorder: c.Recorder,
		Logger:   logger.With(log.LogParams{"algorithm": name}),
	}, nil
}

func (b *base) Name() string {
	return b.name
}

// QValues returns the Q-values recorded for s
func (b *base) QValues(s mdp.State) map[mdp.ActionID]float64 {
	if s == nil {
		return make(map[mdp.ActionID]float64)
	}
	return b.q.Values(s.ID())
}

// Trace returns the per iteration record of the last learning run
func (b *base) Trace() *metrics.Trace {
	return b.trace
}

// Gamma returns the discount factor
func (b *base) Gamma() float64 {
	return b.gamma
}

// Teta returns the convergence threshold
func (b *base) Teta() float64 {
	return b.teta
}

// begin logs the start of learning and returns the function logging its end
func (b *base) begin(strategy mdp.ExplorationStrategy) func() {
	b.Logger.With(log.LogParams{"exploration": strategy.String()}).Info("Start learning")
	start := time.Now()
	return func() {
		d := time.Since(start)
		b.recorder.ObserveLearn(b.name, d)
		b.Logger.With(log.LogParams{
			"duration":   d.String(),
			"iterations": b.trace.Length(),
			"backups":    b.trace.TotalBackups(),
		}).Info("End of learning")
	}
}

// explore runs the exploration and returns the discovered states in
// ascending id order
func (b *base) explore(strategy mdp.ExplorationStrategy) ([]mdp.State, error) {
	if err := b.env.Explore(strategy); err != nil {
		return nil, err
	}
	ids := b.env.StateIDs()
	states := make([]mdp.State, 0, len(ids))
	for _, id := range ids {
		if s, ok := b.env.State(id); ok {
			states = append(states, s)
		}
	}
	b.recorder.States(b.name, len(states))
	if len(states) == 0 {
		b.Logger.Warn("No states discovered, nothing to learn")
	}
	return states, nil
}

// step records the end of an iteration
func (b *base) step(delta float64, backups int) {
	b.trace.Add(delta, backups)
	b.recorder.Iteration(b.name, delta)
	b.recorder.Backups(b.name, backups)
	if b.Logger.DebugEnabled() {
		b.Logger.With(log.LogParams{
			"iteration": b.trace.Length(),
			"delta":     delta,
			"backups":   backups,
		}).Debug("Iteration")
	}
}

// qValue returns reward(s,a,s') + gamma * V(s')
func (b *base) qValue(s mdp.State, a mdp.Action, v mdp.ValueTable) float64 {
	next := a.Destination()
	return b.env.Reward(s, a, next) + b.gamma*v.Get(next.ID())
}

// bellman returns the maximum over the actions of s of qValue, recording
// every Q(s,a) in q when q is not nil. Terminal states are worth 0.
func (b *base) bellman(s mdp.State, v mdp.ValueTable, q *mdp.QTable) float64 {
	actions := s.Actions()
	if len(actions) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, a := range actions {
		val := b.qValue(s, a, v)
		if q != nil {
			q.Set(s.ID(), a.ID(), val)
		}
		if val > max {
			max = val
		}
	}
	return max
}

// valueAgent is the base of the planners maintaining V
type valueAgent struct {
	*base
	v mdp.ValueTable
}

func newValueAgent(name string, env mdp.Environment, c BaseConfig) (*valueAgent, error) {
	b, err := newBase(name, env, c)
	if err != nil {
		return nil, err
	}
	return &valueAgent{base: b, v: mdp.NewValueTable()}, nil
}

// Value returns V(s), 0 for unknown states
func (a *valueAgent) Value(s mdp.State) float64 {
	if s == nil {
		return 0
	}
	return a.v.Get(s.ID())
}

// Values returns a copy of the value table
func (a *valueAgent) Values() mdp.ValueTable {
	return a.v.Clone()
}

func (a *valueAgent) initValues(states []mdp.State) {
	for _, s := range states {
		a.v.Init(s.ID())
	}
}

// sweep backs up every non terminal state in place and returns the largest
// change together with the number of backups
func (a *valueAgent) sweep(states []mdp.State) (float64, int) {
	delta := 0.0
	backups := 0
	for _, s := range states {
		if mdp.IsTerminal(s) {
			continue
		}
		delta = math.Max(delta, a.backup(s))
		backups++
	}
	return delta, backups
}

// backup sets V(s) to its Bellman backup, recording Q(s,.), and returns the
// absolute change
func (a *valueAgent) backup(s mdp.State) float64 {
	val := a.bellman(s, a.v, a.q)
	change := math.Abs(val - a.v.Get(s.ID()))
	a.v.Set(s.ID(), val)
	return change
}
