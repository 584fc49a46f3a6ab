package env_test

import (
	"errors"
	"testing"

	"github.com/netrixframework/mbrl/env"
	"github.com/netrixframework/mbrl/env/graph"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree builds a binary tree of the given depth below a setup chain
// 100 -SETUP_CONSTANTS-> 101 -INITIALISE_MACHINE-> 0
func tree(t *testing.T, depth int) *graph.Graph {
	g := graph.New(100)
	require.NoError(t, g.AddTransition(100, 101, "c", env.SetupConstants, 0))
	require.NoError(t, g.AddTransition(101, 0, "i", env.InitialiseMachine, 0))

	next := mdp.StateID(1)
	level := []mdp.StateID{0}
	for d := 0; d < depth; d++ {
		nextLevel := make([]mdp.StateID, 0)
		for _, s := range level {
			for _, a := range []mdp.ActionID{"l", "r"} {
				require.NoError(t, g.AddTransition(s, next, a, "", 1))
				nextLevel = append(nextLevel, next)
				next++
			}
		}
		level = nextLevel
	}
	return g
}

func newEnv(g *graph.Graph, c *env.Config) *env.Environment {
	return env.New(g, g.Reward, c, log.NewDiscardLogger())
}

func TestInitialiseAppliesSetup(t *testing.T) {
	e := newEnv(tree(t, 1), nil)
	assert.Nil(t, e.CurrentState())

	s, err := e.Initialise()
	require.NoError(t, err)
	assert.Equal(t, mdp.StateID(0), s.ID())
	assert.Equal(t, s, e.CurrentState())

	again, err := e.Initialise()
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestExplorePreprocess(t *testing.T) {
	e := newEnv(tree(t, 3), nil)
	require.NoError(t, e.Explore(mdp.Preprocess))
	assert.Equal(t, 15, e.NumStates())

	ids := e.StateIDs()
	require.Len(t, ids, 15)
	assert.Equal(t, mdp.StateID(0), ids[0])
	assert.Equal(t, mdp.StateID(14), ids[14])
	assert.NotContains(t, ids, mdp.StateID(100), "setup states are not discovered")

	s, ok := e.State(14)
	require.True(t, ok)
	assert.True(t, mdp.IsTerminal(s))
}

func TestExploreRecursiveLimits(t *testing.T) {
	e := newEnv(tree(t, 3), &env.Config{
		SetupActions: []string{env.SetupConstants, env.InitialiseMachine},
		MaxDepth:     2,
		MaxBreadth:   -1,
	})
	require.NoError(t, e.Explore(mdp.Recursive))
	assert.Equal(t, 7, e.NumStates())

	e = newEnv(tree(t, 3), &env.Config{
		SetupActions: []string{env.SetupConstants, env.InitialiseMachine},
		MaxDepth:     -1,
		MaxBreadth:   1,
	})
	require.NoError(t, e.Explore(mdp.Recursive))
	assert.Equal(t, []mdp.StateID{0, 1, 3, 7}, e.StateIDs())

	e = newEnv(tree(t, 3), nil)
	require.NoError(t, e.Explore(mdp.Recursive))
	assert.Equal(t, 15, e.NumStates())
}

func TestExploreNoneAndAddStateID(t *testing.T) {
	e := newEnv(tree(t, 2), nil)
	require.NoError(t, e.Explore(mdp.None))
	assert.Equal(t, 0, e.NumStates())

	e.AddStateID(3)
	e.AddStateID(3)
	assert.Equal(t, []mdp.StateID{3}, e.StateIDs())

	s, ok := e.State(3)
	require.True(t, ok, "states unknown to the environment are looked up in the oracle")
	assert.Equal(t, mdp.StateID(3), s.ID())

	_, ok = e.State(999)
	assert.False(t, ok)
}

func TestExploreNeverShrinks(t *testing.T) {
	e := newEnv(tree(t, 2), nil)
	require.NoError(t, e.Explore(mdp.Preprocess))
	require.NoError(t, e.Explore(mdp.None))
	assert.Equal(t, 7, e.NumStates())
}

type failingOracle struct{}

var errBackend = errors.New("model failed to load")

func (failingOracle) Root() (mdp.State, error)             { return nil, errBackend }
func (failingOracle) Lookup(mdp.StateID) (mdp.State, bool) { return nil, false }

func TestOracleFailure(t *testing.T) {
	e := env.New(failingOracle{}, nil, nil, log.NewDiscardLogger())
	assert.ErrorIs(t, e.Explore(mdp.Preprocess), errBackend)
	_, err := e.Initialise()
	assert.ErrorIs(t, err, errBackend)
}

func TestUnknownStrategy(t *testing.T) {
	e := newEnv(tree(t, 1), nil)
	assert.ErrorIs(t, e.Explore(mdp.ExplorationStrategy(42)), env.ErrUnknownStrategy)
}
