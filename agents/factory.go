package agents

import (
	"errors"
	"fmt"
	"strings"

	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/metrics"
)

// ErrUnknownAlgorithm is returned for algorithm identifiers without a solver
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// AlgorithmID identifies a solver
type AlgorithmID int

const (
	AlgValueIteration AlgorithmID = iota
	AlgPolicyIteration
	AlgModifiedPolicyIteration
	AlgBackwardInduction
	AlgIncrementalValueIteration
	AlgPrioritizedValueIteration
	AlgDynaQ
	AlgDynaQPlus
)

var algorithmNames = []string{
	AlgValueIteration:            "VALUE_ITERATION",
	AlgPolicyIteration:           "POLICY_ITERATION",
	AlgModifiedPolicyIteration:   "MODIFIED_POLICY_ITERATION",
	AlgBackwardInduction:         "BACKWARD_INDUCTION",
	AlgIncrementalValueIteration: "INCREMENTAL_VALUE_ITERATION",
	AlgPrioritizedValueIteration: "PRIORITIZED_VALUE_ITERATION",
	AlgDynaQ:                     "DYNA_Q",
	AlgDynaQPlus:                 "DYNA_Q_PLUS",
}

func (a AlgorithmID) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("AlgorithmID(%d)", int(a))
	}
	return algorithmNames[a]
}

// Algorithms returns every algorithm identifier
func Algorithms() []AlgorithmID {
	res := make([]AlgorithmID, len(algorithmNames))
	for i := range algorithmNames {
		res[i] = AlgorithmID(i)
	}
	return res
}

// ParseAlgorithm parses an identifier such as VALUE_ITERATION, ignoring
// case and accepting '-' for '_'
func ParseAlgorithm(s string) (AlgorithmID, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, n := range algorithmNames {
		if n == name {
			return AlgorithmID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

type options struct {
	logger   *log.Logger
	recorder *metrics.Recorder
	seed     uint64
}

// Option sets an ambient collaborator of the agents built by New
type Option func(*options)

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithSeed seeds the randomized agents, 0 seeds from the clock
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// New builds the agent of the given algorithm over env with its fixed
// hyperparameters. Nothing is learned until Learn is called.
func New(id AlgorithmID, env mdp.Environment, opts ...Option) (Agent, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	common := BaseConfig{
		Gamma:    0.9,
		Teta:     0.01,
		Logger:   o.logger,
		Recorder: o.recorder,
	}
	dynaQ := DynaQConfig{
		BaseConfig:         common,
		Alpha:              0.1,
		Epsilon:            0.1,
		PlanningSteps:      10,
		MaxEpisodes:        20000,
		MaxStepsPerEpisode: 50,
		Seed:               o.seed,
	}

	switch id {
	case AlgValueIteration:
		return agent(NewValueIteration(env, &ValueIterationConfig{
			BaseConfig:    common,
			MaxIterations: 10,
		}))
	case AlgPolicyIteration:
		return agent(NewPolicyIteration(env, &PolicyIterationConfig{
			BaseConfig:    common,
			MaxIterations: 100,
		}))
	case AlgModifiedPolicyIteration:
		return agent(NewModifiedPolicyIteration(env, &ModifiedPolicyIterationConfig{
			BaseConfig:     common,
			MaxIterations:  100,
			EvalIterations: 5,
		}))
	case AlgBackwardInduction:
		return agent(NewBackwardInduction(env, &BackwardInductionConfig{
			BaseConfig: BaseConfig{Gamma: 0.9, Logger: o.logger, Recorder: o.recorder},
			Horizon:    9,
		}))
	case AlgIncrementalValueIteration:
		incremental := common
		incremental.Teta = 0.001
		return agent(NewIncrementalValueIteration(env, &IncrementalValueIterationConfig{
			BaseConfig:          incremental,
			MaxIterations:       200,
			UpdatesPerIteration: 500,
			Seed:                o.seed,
		}))
	case AlgPrioritizedValueIteration:
		return agent(NewPrioritizedValueIteration(env, &PrioritizedValueIterationConfig{
			BaseConfig: common,
			MaxUpdates: 100000,
		}))
	case AlgDynaQ:
		return agent(NewDynaQ(env, &dynaQ))
	case AlgDynaQPlus:
		return agent(NewDynaQPlus(env, &DynaQPlusConfig{
			DynaQConfig:      dynaQ,
			Kappa:            0.001,
			LogEveryEpisodes: 1000,
		}))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, id)
}

// agent drops the typed nil returned with an error
func agent(a Agent, err error) (Agent, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
