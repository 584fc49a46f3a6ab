package agents

import (
	"github.com/netrixframework/mbrl/mdp"
)

// ModifiedPolicyIterationConfig configures ModifiedPolicyIteration
type ModifiedPolicyIterationConfig struct {
	BaseConfig
	// MaxIterations caps the number of evaluation and improvement rounds
	MaxIterations int
	// EvalIterations caps the sweeps of each policy evaluation
	EvalIterations int
}

// ModifiedPolicyIteration is PolicyIteration with the evaluation truncated
// to EvalIterations sweeps.
type ModifiedPolicyIteration struct {
	*PolicyIteration
}

var _ Agent = &ModifiedPolicyIteration{}

func NewModifiedPolicyIteration(env mdp.Environment, config *ModifiedPolicyIterationConfig) (*ModifiedPolicyIteration, error) {
	if config.EvalIterations < 1 {
		return nil, ErrInvalidBudget
	}
	pi, err := newPolicyIteration(
		AlgModifiedPolicyIteration.String(),
		env,
		config.BaseConfig,
		config.MaxIterations,
		config.EvalIterations,
	)
	if err != nil {
		return nil, err
	}
	return &ModifiedPolicyIteration{PolicyIteration: pi}, nil
}
