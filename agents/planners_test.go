package agents

import (
	"testing"

	"github.com/netrixframework/mbrl/mdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNonIncreasing(t *testing.T, deltas []float64) {
	for i := 1; i < len(deltas); i++ {
		assert.LessOrEqual(t, deltas[i], deltas[i-1], "iteration %d", i+1)
	}
}

func TestValueIterationTwoStates(t *testing.T) {
	e := twoStates(t)
	vi, err := NewValueIteration(e, &ValueIterationConfig{BaseConfig: quiet(), MaxIterations: 10})
	require.NoError(t, err)
	require.NoError(t, vi.Learn(mdp.Preprocess))

	s0, s1 := state(t, e, 0), state(t, e, 1)
	assert.Equal(t, 1.0, vi.Value(s0))
	assert.Equal(t, 0.0, vi.Value(s1))
	assert.Equal(t, map[mdp.ActionID]float64{"a": 1.0}, vi.QValues(s0))
	assert.Empty(t, vi.QValues(s1))

	assert.Equal(t, []float64{1, 0}, vi.Trace().Deltas())
}

func TestValueIterationDeltaDecreases(t *testing.T) {
	e := selfLoop(t)
	vi, err := NewValueIteration(e, &ValueIterationConfig{BaseConfig: quiet(), MaxIterations: 10})
	require.NoError(t, err)
	require.NoError(t, vi.Learn(mdp.Preprocess))

	deltas := vi.Trace().Deltas()
	require.Len(t, deltas, 10, "capped before reaching teta")
	assertNonIncreasing(t, deltas)
	assert.InDelta(t, 1.0, deltas[0], 1e-12)
	assert.InDelta(t, 0.9, deltas[1], 1e-12)

	expected := 0.0
	for i := 0; i < 10; i++ {
		expected = 1 + 0.9*expected
	}
	s0 := state(t, e, 0)
	assert.InDelta(t, expected, vi.Value(s0), 1e-9)
	assert.InDelta(t, 0.0, vi.QValues(s0)["exit"], 1e-12)
}

func TestValueIterationStopsAtTeta(t *testing.T) {
	c := quiet()
	c.Teta = 0.5
	vi, err := NewValueIteration(selfLoop(t), &ValueIterationConfig{BaseConfig: c, MaxIterations: 100})
	require.NoError(t, err)
	require.NoError(t, vi.Learn(mdp.Preprocess))

	deltas := vi.Trace().Deltas()
	require.NotEmpty(t, deltas)
	assert.LessOrEqual(t, deltas[len(deltas)-1], 0.5)
	for _, d := range deltas[:len(deltas)-1] {
		assert.Greater(t, d, 0.5)
	}
}

func TestPolicyIterationImproves(t *testing.T) {
	e := build(t, 0, edge{0, 2, "a", 0}, edge{0, 2, "b", 1}, edge{0, 1, "c", 0}, edge{1, 2, "d", 5})
	pi, err := NewPolicyIteration(e, &PolicyIterationConfig{BaseConfig: quiet(), MaxIterations: 100})
	require.NoError(t, err)
	require.NoError(t, pi.Learn(mdp.Preprocess))

	s0, s1, s2 := state(t, e, 0), state(t, e, 1), state(t, e, 2)
	a, ok := pi.Policy(s0)
	require.True(t, ok)
	assert.Equal(t, mdp.ActionID("c"), a.ID())
	_, ok = pi.Policy(s2)
	assert.False(t, ok, "no policy for terminal states")

	assert.InDelta(t, 4.5, pi.Value(s0), 1e-9)
	assert.InDelta(t, 5.0, pi.Value(s1), 1e-9)
	assert.Equal(t, 0.0, pi.Value(s2))
	assert.Equal(t, 2, pi.Trace().Length(), "one round to improve, one to confirm")

	q := pi.QValues(s0)
	assert.InDelta(t, 0.0, q["a"], 1e-9)
	assert.InDelta(t, 1.0, q["b"], 1e-9)
	assert.InDelta(t, 4.5, q["c"], 1e-9)
	assert.Empty(t, pi.QValues(s2))
}

func TestPolicyIterationKeepsTiedAction(t *testing.T) {
	e := build(t, 0, edge{0, 1, "a", 1}, edge{0, 1, "b", 1})
	pi, err := NewPolicyIteration(e, &PolicyIterationConfig{BaseConfig: quiet(), MaxIterations: 100})
	require.NoError(t, err)
	require.NoError(t, pi.Learn(mdp.Preprocess))

	a, ok := pi.Policy(state(t, e, 0))
	require.True(t, ok)
	assert.Equal(t, mdp.ActionID("a"), a.ID())
	assert.Equal(t, 1, pi.Trace().Length())
}

func TestPolicyIterationEvaluatesToTeta(t *testing.T) {
	e := selfLoop(t)
	pi, err := NewPolicyIteration(e, &PolicyIterationConfig{BaseConfig: quiet(), MaxIterations: 100})
	require.NoError(t, err)
	require.NoError(t, pi.Learn(mdp.Preprocess))

	s0 := state(t, e, 0)
	assert.InDelta(t, 10.0, pi.Value(s0), 0.1)
	a, _ := pi.Policy(s0)
	assert.Equal(t, mdp.ActionID("loop"), a.ID())
	assertNonIncreasing(t, pi.Trace().Deltas())
}

func TestModifiedPolicyIterationTruncatesEvaluation(t *testing.T) {
	e := selfLoop(t)
	mpi, err := NewModifiedPolicyIteration(e, &ModifiedPolicyIterationConfig{
		BaseConfig:     quiet(),
		MaxIterations:  1,
		EvalIterations: 5,
	})
	require.NoError(t, err)
	require.NoError(t, mpi.Learn(mdp.Preprocess))

	expected := 0.0
	for i := 0; i < 5; i++ {
		expected = 1 + 0.9*expected
	}
	s0 := state(t, e, 0)
	assert.InDelta(t, expected, mpi.Value(s0), 1e-9)
	assert.InDelta(t, 1+0.9*expected, mpi.QValues(s0)["loop"], 1e-9)

	step, ok := mpi.Trace().Last()
	require.True(t, ok)
	assert.Equal(t, 6, step.Backups, "five evaluation backups and one improvement")
	assert.Equal(t, AlgModifiedPolicyIteration.String(), mpi.Name())
}

func TestModifiedPolicyIterationConverges(t *testing.T) {
	e := build(t, 0, edge{0, 2, "a", 0}, edge{0, 2, "b", 1}, edge{0, 1, "c", 0}, edge{1, 2, "d", 5})
	mpi, err := NewModifiedPolicyIteration(e, &ModifiedPolicyIterationConfig{
		BaseConfig:     quiet(),
		MaxIterations:  100,
		EvalIterations: 5,
	})
	require.NoError(t, err)
	require.NoError(t, mpi.Learn(mdp.Preprocess))

	a, ok := mpi.Policy(state(t, e, 0))
	require.True(t, ok)
	assert.Equal(t, mdp.ActionID("c"), a.ID())
	assert.InDelta(t, 4.5, mpi.Value(state(t, e, 0)), 1e-9)
}

// chain is s0 -a(r=0)-> s1 -b(r=1)-> s2 with s2 terminal
func chain(t *testing.T) *BackwardInduction {
	c := quiet()
	c.Gamma = 1
	bi, err := NewBackwardInduction(build(t, 0, edge{0, 1, "a", 0}, edge{1, 2, "b", 1}), &BackwardInductionConfig{
		BaseConfig: c,
		Horizon:    2,
	})
	require.NoError(t, err)
	require.NoError(t, bi.Learn(mdp.Preprocess))
	return bi
}

func TestBackwardInductionChain(t *testing.T) {
	bi := chain(t)
	s0, _ := bi.env.State(0)
	s1, _ := bi.env.State(1)
	s2, _ := bi.env.State(2)

	v, ok := bi.ValueAt(2, s0)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	v, _ = bi.ValueAt(2, s1)
	assert.Equal(t, 1.0, v)
	v, _ = bi.ValueAt(1, s0)
	assert.Equal(t, 0.0, v)
	v, _ = bi.ValueAt(0, s1)
	assert.Equal(t, 0.0, v)
	_, ok = bi.ValueAt(3, s0)
	assert.False(t, ok)

	assert.Equal(t, 1.0, bi.Value(s0))
	assert.Equal(t, 0.0, bi.Value(s2))
	assert.Equal(t, map[mdp.ActionID]float64{"a": 1.0}, bi.QValues(s0))
	assert.Equal(t, map[mdp.ActionID]float64{"b": 1.0}, bi.QValues(s1))
	assert.Empty(t, bi.QValues(s2))
	assert.Equal(t, 2, bi.Trace().Length())
}

func TestBackwardInductionIsDeterministic(t *testing.T) {
	one, two := chain(t), chain(t)
	for id := mdp.StateID(0); id <= 2; id++ {
		s1, _ := one.env.State(id)
		s2, _ := two.env.State(id)
		assert.Equal(t, one.Value(s1), two.Value(s2))
		assert.Equal(t, one.QValues(s1), two.QValues(s2))
	}
	assert.Equal(t, one.Trace().Steps(), two.Trace().Steps())
}

func TestBackwardInductionRunsExactlyHorizon(t *testing.T) {
	c := quiet()
	c.Teta = 1000
	bi, err := NewBackwardInduction(selfLoop(t), &BackwardInductionConfig{BaseConfig: c, Horizon: 4})
	require.NoError(t, err)
	require.NoError(t, bi.Learn(mdp.Preprocess))
	assert.Equal(t, 4, bi.Trace().Length())
	assert.Equal(t, 4, bi.Horizon())
}

func TestIncrementalValueIterationCap(t *testing.T) {
	c := quiet()
	c.Teta = 0
	e := build(t, 0, edge{0, 0, "loop", 1})
	ivi, err := NewIncrementalValueIteration(e, &IncrementalValueIterationConfig{
		BaseConfig:          c,
		MaxIterations:       3,
		UpdatesPerIteration: 500,
		Seed:                3,
	})
	require.NoError(t, err)
	require.NoError(t, ivi.Learn(mdp.Preprocess))

	assert.Equal(t, 3, ivi.Trace().Length())
	assert.Equal(t, 3, ivi.Trace().TotalBackups(), "batches are capped at the number of states")
	assert.InDelta(t, 2.71, ivi.Value(state(t, e, 0)), 1e-9)
}

func TestIncrementalValueIterationConverges(t *testing.T) {
	c := quiet()
	c.Teta = 0.001
	e := build(t, 0, edge{0, 0, "loop", 1})
	ivi, err := NewIncrementalValueIteration(e, &IncrementalValueIterationConfig{
		BaseConfig:          c,
		MaxIterations:       200,
		UpdatesPerIteration: 500,
		Seed:                3,
	})
	require.NoError(t, err)
	require.NoError(t, ivi.Learn(mdp.Preprocess))

	assert.Less(t, ivi.Trace().Length(), 200)
	assert.InDelta(t, 10.0, ivi.Value(state(t, e, 0)), 0.01)
	assertNonIncreasing(t, ivi.Trace().Deltas())
}

func TestIncrementalValueIterationSeeded(t *testing.T) {
	run := func() []float64 {
		c := quiet()
		c.Teta = 0.001
		ivi, err := NewIncrementalValueIteration(diamond(t), &IncrementalValueIterationConfig{
			BaseConfig:          c,
			MaxIterations:       50,
			UpdatesPerIteration: 2,
			Seed:                11,
		})
		require.NoError(t, err)
		require.NoError(t, ivi.Learn(mdp.Preprocess))
		return ivi.Trace().Deltas()
	}
	assert.Equal(t, run(), run())
}

func TestPrioritizedValueIterationTwoStates(t *testing.T) {
	e := twoStates(t)
	pvi, err := NewPrioritizedValueIteration(e, &PrioritizedValueIterationConfig{BaseConfig: quiet(), MaxUpdates: 100})
	require.NoError(t, err)
	require.NoError(t, pvi.Learn(mdp.Preprocess))

	assert.Equal(t, 1, pvi.Updates())
	assert.Equal(t, 1.0, pvi.Value(state(t, e, 0)))
	assert.Equal(t, map[mdp.ActionID]float64{"a": 1.0}, pvi.QValues(state(t, e, 0)))
	assert.Empty(t, pvi.QValues(state(t, e, 1)))
}

func TestPrioritizedValueIterationChain(t *testing.T) {
	e := build(t, 0, edge{0, 1, "a", 1}, edge{1, 2, "a", 1}, edge{2, 3, "a", 1})
	pvi, err := NewPrioritizedValueIteration(e, &PrioritizedValueIterationConfig{BaseConfig: quiet(), MaxUpdates: 100})
	require.NoError(t, err)
	require.NoError(t, pvi.Learn(mdp.Preprocess))

	assert.InDelta(t, 2.71, pvi.Value(state(t, e, 0)), 1e-9)
	assert.InDelta(t, 1.9, pvi.Value(state(t, e, 1)), 1e-9)
	assert.InDelta(t, 1.0, pvi.Value(state(t, e, 2)), 1e-9)
	assert.Equal(t, 0.0, pvi.Value(state(t, e, 3)))
	assert.Equal(t, 6, pvi.Updates())
	assert.Equal(t, 6, pvi.Trace().TotalBackups())
}

func TestPrioritizedValueIterationBudget(t *testing.T) {
	c := quiet()
	c.Teta = 0
	pvi, err := NewPrioritizedValueIteration(build(t, 0, edge{0, 0, "loop", 1}), &PrioritizedValueIterationConfig{
		BaseConfig: c,
		MaxUpdates: 50,
	})
	require.NoError(t, err)
	require.NoError(t, pvi.Learn(mdp.Preprocess))

	assert.Equal(t, 50, pvi.Updates())
	assert.Equal(t, 50, pvi.Trace().TotalBackups())
}
