package agents

import (
	"math"

	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/types"
	"github.com/netrixframework/mbrl/util"
	"golang.org/x/exp/rand"
)

// IncrementalValueIterationConfig configures IncrementalValueIteration
type IncrementalValueIterationConfig struct {
	BaseConfig
	// MaxIterations caps the number of update batches
	MaxIterations int
	// UpdatesPerIteration is the size of a batch, capped at the number of
	// discovered states
	UpdatesPerIteration int
	// Seed of the state sampler, 0 seeds from the clock
	Seed uint64
}

// IncrementalValueIteration backs up uniformly sampled states in batches.
// It stops after MaxIterations batches, or earlier once the largest change
// of a batch drops to teta. The cap is checked first.
type IncrementalValueIteration struct {
	*valueAgent
	maxIterations       int
	updatesPerIteration int
	rand                *rand.Rand
}

var _ Agent = &IncrementalValueIteration{}
var _ Valuer = &IncrementalValueIteration{}

func NewIncrementalValueIteration(env mdp.Environment, config *IncrementalValueIterationConfig) (*IncrementalValueIteration, error) {
	if config.MaxIterations < 1 || config.UpdatesPerIteration < 1 {
		return nil, ErrInvalidBudget
	}
	a, err := newValueAgent(AlgIncrementalValueIteration.String(), env, config.BaseConfig)
	if err != nil {
		return nil, err
	}
	return &IncrementalValueIteration{
		valueAgent:          a,
		maxIterations:       config.MaxIterations,
		updatesPerIteration: config.UpdatesPerIteration,
		rand:                util.NewRand(config.Seed),
	}, nil
}

func (ivi *IncrementalValueIteration) Learn(strategy mdp.ExplorationStrategy) error {
	done := ivi.begin(strategy)
	defer done()

	states, err := ivi.explore(strategy)
	if err != nil || len(states) == 0 {
		return err
	}
	ivi.initValues(states)

	updates := types.Min(ivi.updatesPerIteration, len(states))

	for iteration := 1; ; iteration++ {
		delta := 0.0
		backups := 0
		for i := 0; i < updates; i++ {
			s := states[ivi.rand.Intn(len(states))]
			if mdp.IsTerminal(s) {
				continue
			}
			delta = math.Max(delta, ivi.backup(s))
			backups++
		}
		ivi.step(delta, backups)

		if iteration >= ivi.maxIterations {
			break
		}
		if delta <= ivi.teta {
			break
		}
	}
	return nil
}
