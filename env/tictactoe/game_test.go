package tictactoe

import (
	"bytes"
	"testing"

	"github.com/netrixframework/mbrl/env"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// play follows the cells from the empty board
func play(t *testing.T, g *Game, cells ...int) (mdp.State, mdp.Action, mdp.State) {
	s, err := g.Root()
	require.NoError(t, err)
	var prev mdp.State
	var last mdp.Action
	for _, cell := range cells {
		var move mdp.Action
		for _, a := range s.Actions() {
			if a.(*Move).cell == cell {
				move = a
			}
		}
		require.NotNil(t, move, "cell %d is not playable on %s", cell, s)
		prev, last, s = s, move, move.Destination()
	}
	return prev, last, s
}

func TestBoardEncoding(t *testing.T) {
	b := Board{Nought, Empty, Cross, Empty, Nought, Empty, Empty, Empty, Empty}
	assert.Equal(t, mdp.StateID(1+2*9+1*81), b.ID())
	decoded, ok := decode(b.ID())
	require.True(t, ok)
	assert.Equal(t, b, decoded)
	assert.Equal(t, 1, b.Turn())
	assert.Equal(t, "O.X/.O./...", b.String())

	_, ok = decode(2)
	assert.False(t, ok, "cross cannot move first")
	_, ok = decode(19683)
	assert.False(t, ok)
	_, ok = decode(-1)
	assert.False(t, ok)
}

func TestRootActions(t *testing.T) {
	g := New(OnTheFly)
	root, err := g.Root()
	require.NoError(t, err)
	assert.Equal(t, mdp.StateID(0), root.ID())

	actions := root.Actions()
	require.Len(t, actions, 9)
	assert.Equal(t, mdp.ActionID("play(0,0)"), actions[0].ID())
	assert.Equal(t, mdp.ActionID("play(2,2)"), actions[8].ID())
	assert.Equal(t, "play", actions[4].Name())
	row, col := actions[5].(*Move).Cell()
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	next := actions[0].Destination()
	assert.Len(t, next.Actions(), 8)
	same, ok := g.Lookup(next.ID())
	require.True(t, ok)
	assert.Same(t, next, same)
	assert.Same(t, root, actions[0].Source())
}

func TestRewards(t *testing.T) {
	g := New(OnTheFly)

	prev, move, won := play(t, g, 0, 3, 1, 4, 2)
	assert.Equal(t, WinReward, g.Reward(prev, move, won))
	assert.True(t, mdp.IsTerminal(won))

	prev, move, lost := play(t, g, 0, 3, 1, 4, 8, 5)
	assert.Equal(t, LossReward, g.Reward(prev, move, lost))
	assert.True(t, mdp.IsTerminal(lost))

	// O X O / O X X / X O O
	prev, move, draw := play(t, g, 0, 1, 2, 4, 3, 5, 7, 6, 8)
	_, won2 := draw.(*State).Board().Winner()
	require.False(t, won2)
	assert.Equal(t, DrawReward, g.Reward(prev, move, draw))
	assert.True(t, mdp.IsTerminal(draw))

	prev, move, open := play(t, g, 4)
	assert.Equal(t, MoveReward, g.Reward(prev, move, open))
	assert.False(t, mdp.IsTerminal(open))
}

func TestRewardStrategies(t *testing.T) {
	for _, c := range []struct {
		strategy    RewardStrategy
		evaluations int
	}{
		{OnTheFly, 3},
		{OnceAndForAll, 1},
	} {
		g := New(c.strategy)
		prev, move, next := play(t, g, 4)
		for i := 0; i < 3; i++ {
			assert.Equal(t, MoveReward, g.Reward(prev, move, next))
		}
		assert.Equal(t, c.evaluations, g.Evaluations(), c.strategy.String())
	}

	for _, s := range []RewardStrategy{OnTheFly, OnceAndForAll} {
		parsed, err := ParseRewardStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseRewardStrategy("LAZY")
	assert.ErrorIs(t, err, ErrUnknownRewardStrategy)
}

func TestExploreWholeGame(t *testing.T) {
	e := New(OnTheFly).Environment(nil, log.NewDiscardLogger())
	require.NoError(t, e.Explore(mdp.Preprocess))
	assert.Equal(t, 5478, e.NumStates())

	terminal := 0
	for _, id := range e.StateIDs() {
		s, ok := e.State(id)
		require.True(t, ok)
		if mdp.IsTerminal(s) {
			terminal++
		}
	}
	assert.Equal(t, 958, terminal)
}

func TestExploreDepthLimited(t *testing.T) {
	e := New(OnTheFly).Environment(&env.Config{MaxDepth: 2, MaxBreadth: -1}, log.NewDiscardLogger())
	require.NoError(t, e.Explore(mdp.Recursive))
	assert.Equal(t, 1+9+9*8, e.NumStates())

	e = New(OnTheFly).Environment(&env.Config{MaxDepth: -1, MaxBreadth: 1}, log.NewDiscardLogger())
	require.NoError(t, e.Explore(mdp.Recursive))
	assert.Equal(t, 8, e.NumStates(), "O wins on the diagonal after seven moves")
}

func TestPrint(t *testing.T) {
	g := New(OnTheFly)
	_, _, s := play(t, g, 0, 4)
	var buf bytes.Buffer
	g.Print(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "O")
	assert.Contains(t, out, "X")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
}
