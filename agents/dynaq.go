package agents

import (
	"math"

	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/util"
	"golang.org/x/exp/rand"
)

// DynaQConfig configures DynaQ
type DynaQConfig struct {
	BaseConfig
	// Alpha learning rate in (0,1]
	Alpha float64
	// Epsilon probability of a random action in [0,1]
	Epsilon float64
	// PlanningSteps simulated updates after every real step
	PlanningSteps int
	// MaxEpisodes number of episodes
	MaxEpisodes int
	// MaxStepsPerEpisode bounds the real steps of an episode
	MaxStepsPerEpisode int
	// Seed of the exploration and planning samplers, 0 seeds from the clock
	Seed uint64
}

// DynaQ learns Q online with epsilon-greedy Q-learning. Every real step
// is recorded in a model which is replayed for PlanningSteps simulated
// updates. States are discovered while acting.
type DynaQ struct {
	*base
	alpha              float64
	planningSteps      int
	maxEpisodes        int
	maxStepsPerEpisode int

	rand   *rand.Rand
	policy *eGreedy
	model  *model
}

var _ Agent = &DynaQ{}

func NewDynaQ(env mdp.Environment, config *DynaQConfig) (*DynaQ, error) {
	return newDynaQ(AlgDynaQ.String(), env, config)
}

func newDynaQ(name string, env mdp.Environment, config *DynaQConfig) (*DynaQ, error) {
	if math.IsNaN(config.Alpha) || config.Alpha <= 0 || config.Alpha > 1 {
		return nil, ErrInvalidAlpha
	}
	if math.IsNaN(config.Epsilon) || config.Epsilon < 0 || config.Epsilon > 1 {
		return nil, ErrInvalidEpsilon
	}
	if config.PlanningSteps < 0 || config.MaxEpisodes < 1 || config.MaxStepsPerEpisode < 1 {
		return nil, ErrInvalidBudget
	}
	b, err := newBase(name, env, config.BaseConfig)
	if err != nil {
		return nil, err
	}
	r := util.NewRand(config.Seed)
	return &DynaQ{
		base:               b,
		alpha:              config.Alpha,
		planningSteps:      config.PlanningSteps,
		maxEpisodes:        config.MaxEpisodes,
		maxStepsPerEpisode: config.MaxStepsPerEpisode,
		rand:               r,
		policy:             newEGreedy(config.Epsilon, r),
		model:              newModel(),
	}, nil
}

// ModelSize returns the number of distinct pairs in the learned model
func (d *DynaQ) ModelSize() int {
	return d.model.Len()
}

// QValues returns Q(s,a) for every action of s, 0 for the pairs not yet
// updated. Empty when s was never acted from.
func (d *DynaQ) QValues(s mdp.State) map[mdp.ActionID]float64 {
	res := make(map[mdp.ActionID]float64)
	if s == nil || !d.q.Exists(s.ID()) {
		return res
	}
	for _, a := range s.Actions() {
		res[a.ID()] = d.q.Value(mdp.KeyOf(s, a))
	}
	return res
}

// Learn ignores the exploration strategy, states are discovered by acting
func (d *DynaQ) Learn(strategy mdp.ExplorationStrategy) error {
	done := d.begin(strategy)
	defer done()

	initial, err := d.env.Initialise()
	if err != nil {
		return err
	}
	d.env.AddStateID(initial.ID())

	for episode := 0; episode < d.maxEpisodes; episode++ {
		s := d.env.CurrentState()
		if s == nil {
			s = initial
		}
		delta := 0.0
		backups := 0
		for step := 0; step < d.maxStepsPerEpisode; step++ {
			actions := s.Actions()
			if len(actions) == 0 {
				break
			}
			a := d.policy.choose(d.q, s, actions)
			k, next, reward, change := d.act(s, a)
			delta = math.Max(delta, change)
			backups++

			d.model.record(k, next, reward)
			for i := 0; i < d.planningSteps; i++ {
				delta = math.Max(delta, d.plan(nil))
				backups++
			}
			s = next
		}
		d.recorder.Episode(d.name)
		d.recorder.States(d.name, d.env.NumStates())
		d.step(delta, backups)
	}
	return nil
}

// act executes a from s, records the successor as discovered and applies
// the Q-learning update
func (d *DynaQ) act(s mdp.State, a mdp.Action) (mdp.Key, mdp.State, float64, float64) {
	next := a.Destination()
	d.env.AddStateID(next.ID())
	k := mdp.KeyOf(s, a)
	reward := d.env.Reward(s, a, next)
	return k, next, reward, d.update(k, next, reward)
}

// plan replays a uniformly sampled pair of the model, adding bonus(k) to its
// reward when bonus is not nil
func (d *DynaQ) plan(bonus func(mdp.Key) float64) float64 {
	k, e := d.model.sample(d.rand)
	reward := e.reward
	if bonus != nil {
		reward += bonus(k)
	}
	return d.update(k, e.next, reward)
}

// update applies Q(k) += alpha * (reward + gamma * max Q(next,.) - Q(k)) and
// returns the absolute change
func (d *DynaQ) update(k mdp.Key, next mdp.State, reward float64) float64 {
	old := d.q.Value(k)
	target := reward + d.gamma*d.q.MaxQ(next, next.Actions())
	val := old + d.alpha*(target-old)
	d.q.SetKey(k, val)
	return math.Abs(val - old)
}
