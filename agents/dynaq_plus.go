package agents

import (
	"math"

	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
)

// DynaQPlusConfig configures DynaQPlus
type DynaQPlusConfig struct {
	DynaQConfig
	// Kappa scales the exploration bonus, >= 0
	Kappa float64
	// LogEveryEpisodes progress logging period, 0 disables it
	LogEveryEpisodes int
}

// DynaQPlus is DynaQ where simulated updates add the bonus
// kappa * sqrt(time - lastVisit) to the reward, time counting real steps.
// Every episode starts from the initial state.
type DynaQPlus struct {
	*DynaQ
	kappa    float64
	logEvery int

	time      int
	lastVisit map[mdp.Key]int
}

var _ Agent = &DynaQPlus{}

func NewDynaQPlus(env mdp.Environment, config *DynaQPlusConfig) (*DynaQPlus, error) {
	if math.IsNaN(config.Kappa) || config.Kappa < 0 {
		return nil, ErrInvalidKappa
	}
	if config.LogEveryEpisodes < 0 {
		return nil, ErrInvalidBudget
	}
	d, err := newDynaQ(AlgDynaQPlus.String(), env, &config.DynaQConfig)
	if err != nil {
		return nil, err
	}
	return &DynaQPlus{
		DynaQ:     d,
		kappa:     config.Kappa,
		logEvery:  config.LogEveryEpisodes,
		lastVisit: make(map[mdp.Key]int),
	}, nil
}

// Bonus returns kappa * sqrt(dt), 0 when dt <= 0
func (d *DynaQPlus) Bonus(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return d.kappa * math.Sqrt(dt)
}

// Time returns the number of real steps taken
func (d *DynaQPlus) Time() int {
	return d.time
}

func (d *DynaQPlus) bonus(k mdp.Key) float64 {
	return d.Bonus(float64(d.time - d.lastVisit[k]))
}

// Learn ignores the exploration strategy, states are discovered by acting
func (d *DynaQPlus) Learn(strategy mdp.ExplorationStrategy) error {
	done := d.begin(strategy)
	defer done()

	initial, err := d.env.Initialise()
	if err != nil {
		return err
	}
	d.env.AddStateID(initial.ID())

	for episode := 1; episode <= d.maxEpisodes; episode++ {
		s := initial
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
			d.lastVisit[k] = d.time
			for i := 0; i < d.planningSteps; i++ {
				delta = math.Max(delta, d.plan(d.bonus))
				backups++
			}
			d.time++
			s = next
		}
		d.recorder.Episode(d.name)
		d.recorder.States(d.name, d.env.NumStates())
		d.step(delta, backups)

		if d.logEvery > 0 && episode%d.logEvery == 0 {
			d.Logger.With(log.LogParams{
				"episode": episode,
				"time":    d.time,
				"states":  d.env.NumStates(),
				"model":   d.model.Len(),
				"delta":   delta,
			}).Info("Progress")
		}
	}
	return nil
}
