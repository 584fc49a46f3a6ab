package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netrixframework/mbrl/agents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainGraph = `{
	"initial": 0,
	"states": [
		{"id": 0, "transitions": [{"id": "a", "to": 1, "reward": 1}]},
		{"id": 1, "transitions": [{"id": "b", "to": 2, "reward": 2}]}
	]
}`

func execute(t *testing.T, args ...string) (string, error) {
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAlgorithmsCmd(t *testing.T) {
	out, err := execute(t, "algorithms")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(agents.Algorithms()))
	assert.Equal(t, "VALUE_ITERATION", lines[0])
	assert.Equal(t, "DYNA_Q_PLUS", lines[len(lines)-1])
}

func TestLearnCmd(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "chain.json")
	require.NoError(t, os.WriteFile(graphPath, []byte(chainGraph), 0644))
	reports := filepath.Join(dir, "reports")
	plot := filepath.Join(dir, "plot.html")

	out, err := execute(t, "learn", "value_iteration", "policy-iteration",
		"--graph", graphPath, "--report", reports, "--plot", plot, "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "VALUE_ITERATION")
	assert.Contains(t, out, "POLICY_ITERATION")

	entries, err := os.ReadDir(reports)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.FileExists(t, plot)

	_, err = execute(t, "learn", "SARSA", "--graph", graphPath)
	assert.ErrorIs(t, err, agents.ErrUnknownAlgorithm)

	_, err = execute(t, "learn", "VALUE_ITERATION", "--graph", graphPath, "--explore", "SIDEWAYS")
	assert.Error(t, err)
}
