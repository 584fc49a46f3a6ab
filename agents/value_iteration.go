package agents

import (
	"github.com/netrixframework/mbrl/mdp"
)

// ValueIterationConfig configures ValueIteration
type ValueIterationConfig struct {
	BaseConfig
	// MaxIterations caps the number of sweeps
	MaxIterations int
}

// ValueIteration sweeps every discovered state until the largest value
// change drops to teta or MaxIterations sweeps were done.
type ValueIteration struct {
	*valueAgent
	maxIterations int
}

var _ Agent = &ValueIteration{}
var _ Valuer = &ValueIteration{}

func NewValueIteration(env mdp.Environment, config *ValueIterationConfig) (*ValueIteration, error) {
	if config.MaxIterations < 1 {
		return nil, ErrInvalidBudget
	}
	a, err := newValueAgent(AlgValueIteration.String(), env, config.BaseConfig)
	if err != nil {
		return nil, err
	}
	return &ValueIteration{
		valueAgent:    a,
		maxIterations: config.MaxIterations,
	}, nil
}

func (vi *ValueIteration) Learn(strategy mdp.ExplorationStrategy) error {
	done := vi.begin(strategy)
	defer done()

	states, err := vi.explore(strategy)
	if err != nil || len(states) == 0 {
		return err
	}
	vi.initValues(states)

	for iteration := 1; ; iteration++ {
		delta, backups := vi.sweep(states)
		vi.step(delta, backups)
		if iteration >= vi.maxIterations || delta <= vi.teta {
			break
		}
	}
	return nil
}
