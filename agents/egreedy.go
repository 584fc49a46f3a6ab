package agents

import (
	"github.com/netrixframework/mbrl/mdp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// eGreedy picks a uniformly random action with probability epsilon and the
// action with the highest Q-value otherwise. Ties go to the first action.
type eGreedy struct {
	coin distuv.Bernoulli
	rand *rand.Rand
}

func newEGreedy(epsilon float64, r *rand.Rand) *eGreedy {
	return &eGreedy{
		coin: distuv.Bernoulli{P: epsilon, Src: r},
		rand: r,
	}
}

func (e *eGreedy) choose(q *mdp.QTable, s mdp.State, actions []mdp.Action) mdp.Action {
	if e.coin.Rand() == 1 {
		return actions[e.rand.Intn(len(actions))]
	}
	return greedy(q, s, actions)
}

func greedy(q *mdp.QTable, s mdp.State, actions []mdp.Action) mdp.Action {
	vals := make([]float64, len(actions))
	for i, a := range actions {
		vals[i] = q.Value(mdp.KeyOf(s, a))
	}
	return actions[floats.MaxIdx(vals)]
}
