package agents

import (
	"math"

	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/types"
)

// PrioritizedValueIterationConfig configures PrioritizedValueIteration
type PrioritizedValueIterationConfig struct {
	BaseConfig
	// MaxUpdates caps the number of backups
	MaxUpdates int
}

// PrioritizedValueIteration backs up states in decreasing order of Bellman
// error. After a backup the predecessors of the state whose error reaches
// teta are queued again. Queue entries may be stale, the error is
// recomputed when an entry is popped.
type PrioritizedValueIteration struct {
	*valueAgent
	maxUpdates int
	updates    int
}

var _ Agent = &PrioritizedValueIteration{}
var _ Valuer = &PrioritizedValueIteration{}

func NewPrioritizedValueIteration(env mdp.Environment, config *PrioritizedValueIterationConfig) (*PrioritizedValueIteration, error) {
	if config.MaxUpdates < 1 {
		return nil, ErrInvalidBudget
	}
	a, err := newValueAgent(AlgPrioritizedValueIteration.String(), env, config.BaseConfig)
	if err != nil {
		return nil, err
	}
	return &PrioritizedValueIteration{
		valueAgent: a,
		maxUpdates: config.MaxUpdates,
	}, nil
}

// Updates returns the number of backups performed by the last Learn
func (p *PrioritizedValueIteration) Updates() int {
	return p.updates
}

func (p *PrioritizedValueIteration) Learn(strategy mdp.ExplorationStrategy) error {
	done := p.begin(strategy)
	defer done()

	states, err := p.explore(strategy)
	if err != nil || len(states) == 0 {
		return err
	}

	byID := make(map[mdp.StateID]mdp.State, len(states))
	predecessors := make(map[mdp.StateID][]mdp.StateID)
	for _, s := range states {
		byID[s.ID()] = s
		p.v.Set(s.ID(), 0)
	}
	for _, s := range states {
		seen := make(map[mdp.StateID]bool)
		for _, a := range s.Actions() {
			next := a.Destination().ID()
			if seen[next] {
				continue
			}
			seen[next] = true
			predecessors[next] = append(predecessors[next], s.ID())
		}
	}

	queue := types.NewPriorityQueue[mdp.StateID]()
	for _, s := range states {
		if e := p.bellmanError(s); e > 0 {
			queue.Push(s.ID(), e)
		}
	}

	p.updates = 0
	// one trace step per len(states) backups
	delta := 0.0
	backups := 0
	for !queue.Empty() && p.updates < p.maxUpdates {
		id, _, _ := queue.Pop()
		s := byID[id]
		if p.bellmanError(s) < p.teta {
			continue
		}
		delta = math.Max(delta, p.backup(s))
		p.updates++
		backups++

		for _, pid := range predecessors[id] {
			pred := byID[pid]
			if e := p.bellmanError(pred); e >= p.teta {
				queue.Push(pid, e)
			}
		}

		if backups == len(states) {
			p.step(delta, backups)
			delta, backups = 0, 0
		}
	}
	if backups > 0 {
		p.step(delta, backups)
	}
	return nil
}

// bellmanError returns |V(s) - backup(s)|, 0 for terminal states
func (p *PrioritizedValueIteration) bellmanError(s mdp.State) float64 {
	if mdp.IsTerminal(s) {
		return 0
	}
	return math.Abs(p.v.Get(s.ID()) - p.bellman(s, p.v, nil))
}
