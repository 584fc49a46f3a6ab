package agents

import (
	"math"

	"github.com/netrixframework/mbrl/mdp"
)

// BackwardInductionConfig configures BackwardInduction. Teta is accepted
// but not used.
type BackwardInductionConfig struct {
	BaseConfig
	// Horizon is the number of steps to plan for
	Horizon int
}

// BackwardInduction computes the finite horizon values V_1..V_H from
// V_0 = 0, one synchronous sweep per step. Q is kept for the last step only.
type BackwardInduction struct {
	*base
	horizon int
	values  []mdp.ValueTable
}

var _ Agent = &BackwardInduction{}
var _ Valuer = &BackwardInduction{}

func NewBackwardInduction(env mdp.Environment, config *BackwardInductionConfig) (*BackwardInduction, error) {
	if config.Horizon < 1 {
		return nil, ErrInvalidBudget
	}
	b, err := newBase(AlgBackwardInduction.String(), env, config.BaseConfig)
	if err != nil {
		return nil, err
	}
	return &BackwardInduction{
		base:    b,
		horizon: config.Horizon,
		values:  make([]mdp.ValueTable, 0),
	}, nil
}

func (bi *BackwardInduction) Horizon() int {
	return bi.horizon
}

func (bi *BackwardInduction) Learn(strategy mdp.ExplorationStrategy) error {
	done := bi.begin(strategy)
	defer done()

	states, err := bi.explore(strategy)
	if err != nil || len(states) == 0 {
		return err
	}

	prev := mdp.NewValueTable()
	for _, s := range states {
		prev.Init(s.ID())
	}
	values := []mdp.ValueTable{prev}

	for h := 1; h <= bi.horizon; h++ {
		var q *mdp.QTable
		if h == bi.horizon {
			q = bi.q
		}
		curr := mdp.NewValueTable()
		delta := 0.0
		backups := 0
		for _, s := range states {
			if mdp.IsTerminal(s) {
				curr.Set(s.ID(), 0)
				continue
			}
			val := bi.bellman(s, prev, q)
			curr.Set(s.ID(), val)
			delta = math.Max(delta, math.Abs(val-prev.Get(s.ID())))
			backups++
		}
		values = append(values, curr)
		bi.step(delta, backups)
		prev = curr
	}
	bi.values = values
	return nil
}

// Value returns V_H(s)
func (bi *BackwardInduction) Value(s mdp.State) float64 {
	v, _ := bi.ValueAt(bi.horizon, s)
	return v
}

// ValueAt returns V_h(s) for 0 <= h <= H, false before learning or when h is
// out of range
func (bi *BackwardInduction) ValueAt(h int, s mdp.State) (float64, bool) {
	if s == nil || h < 0 || h >= len(bi.values) {
		return 0, false
	}
	return bi.values[h].Get(s.ID()), true
}
