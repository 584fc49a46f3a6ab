package agents

import (
	"math"

	"github.com/netrixframework/mbrl/mdp"
)

// PolicyIterationConfig configures PolicyIteration
type PolicyIterationConfig struct {
	BaseConfig
	// MaxIterations caps the number of evaluation and improvement rounds
	MaxIterations int
}

// PolicyIteration alternates policy evaluation, run until the value change
// of a sweep drops to teta, and greedy policy improvement, until the policy
// is stable or MaxIterations rounds were done.
type PolicyIteration struct {
	*valueAgent
	maxIterations int
	// evalIterations bounds the sweeps of an evaluation, 0 for unbounded
	evalIterations int
	policy         map[mdp.StateID]mdp.Action
}

var _ Agent = &PolicyIteration{}
var _ Valuer = &PolicyIteration{}

func NewPolicyIteration(env mdp.Environment, config *PolicyIterationConfig) (*PolicyIteration, error) {
	return newPolicyIteration(AlgPolicyIteration.String(), env, config.BaseConfig, config.MaxIterations, 0)
}

func newPolicyIteration(name string, env mdp.Environment, c BaseConfig, maxIterations, evalIterations int) (*PolicyIteration, error) {
	if maxIterations < 1 || evalIterations < 0 {
		return nil, ErrInvalidBudget
	}
	a, err := newValueAgent(name, env, c)
	if err != nil {
		return nil, err
	}
	return &PolicyIteration{
		valueAgent:     a,
		maxIterations:  maxIterations,
		evalIterations: evalIterations,
		policy:         make(map[mdp.StateID]mdp.Action),
	}, nil
}

// Policy returns the action chosen for s, false for terminal or unknown states
func (pi *PolicyIteration) Policy(s mdp.State) (mdp.Action, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := pi.policy[s.ID()]
	return a, ok
}

func (pi *PolicyIteration) Learn(strategy mdp.ExplorationStrategy) error {
	done := pi.begin(strategy)
	defer done()

	states, err := pi.explore(strategy)
	if err != nil || len(states) == 0 {
		return err
	}
	pi.initValues(states)

	policyStates := make([]mdp.State, 0, len(states))
	for _, s := range states {
		actions := s.Actions()
		if len(actions) == 0 {
			continue
		}
		if _, ok := pi.policy[s.ID()]; !ok {
			pi.policy[s.ID()] = actions[0]
		}
		policyStates = append(policyStates, s)
	}

	for iteration := 1; ; iteration++ {
		before := pi.v.Clone()
		evalBackups := pi.evaluate(policyStates)
		stable, improveBackups := pi.improve(policyStates)

		delta := 0.0
		for _, s := range policyStates {
			delta = math.Max(delta, math.Abs(pi.v.Get(s.ID())-before.Get(s.ID())))
		}
		pi.step(delta, evalBackups+improveBackups)
		if iteration >= pi.maxIterations || stable {
			break
		}
	}
	return nil
}

// evaluate sweeps V under the current policy until the change of a sweep is
// at most teta, or evalIterations sweeps were done when bounded
func (pi *PolicyIteration) evaluate(states []mdp.State) int {
	backups := 0
	for sweeps := 1; ; sweeps++ {
		delta := 0.0
		for _, s := range states {
			val := pi.qValue(s, pi.policy[s.ID()], pi.v)
			delta = math.Max(delta, math.Abs(val-pi.v.Get(s.ID())))
			pi.v.Set(s.ID(), val)
			backups++
		}
		if pi.evalIterations > 0 && sweeps >= pi.evalIterations {
			break
		}
		if delta <= pi.teta {
			break
		}
	}
	return backups
}

// improve makes the policy greedy with respect to V. The current action is
// kept when it attains the maximum.
func (pi *PolicyIteration) improve(states []mdp.State) (bool, int) {
	stable := true
	backups := 0
	for _, s := range states {
		current := pi.policy[s.ID()]
		best := current
		bestVal := math.Inf(-1)
		for _, a := range s.Actions() {
			val := pi.qValue(s, a, pi.v)
			pi.q.Set(s.ID(), a.ID(), val)
			if a.ID() == current.ID() && val >= bestVal {
				best, bestVal = a, val
			} else if val > bestVal {
				best, bestVal = a, val
			}
		}
		backups++
		if best.ID() != current.ID() {
			pi.policy[s.ID()] = best
			stable = false
		}
	}
	return stable, backups
}
