package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/env/graph"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *APIServer {
	g := graph.New(0)
	require.NoError(t, g.AddTransition(0, 1, "a", "", 1))
	require.NoError(t, g.AddTransition(0, 2, "b", "", 0))
	require.NoError(t, g.AddTransition(1, 2, "c", "", 2))
	e := g.Environment(nil, log.NewDiscardLogger())

	recorder := metrics.NewRecorder()
	agent, err := agents.New(agents.AlgValueIteration, e,
		agents.WithLogger(log.NewDiscardLogger()),
		agents.WithRecorder(recorder),
	)
	require.NoError(t, err)
	require.NoError(t, agent.Learn(mdp.Preprocess))
	return NewAPIServer("", e, agent, recorder.Registry(), log.NewDiscardLogger())
}

func get(t *testing.T, srv *APIServer, path string, out interface{}) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestAgentRoutes(t *testing.T) {
	srv := newServer(t)
	assert.Equal(t, "APIServer", srv.Name())
	assert.False(t, srv.Running())

	var agent struct {
		Name       string `json:"name"`
		States     int    `json:"states"`
		Iterations int    `json:"iterations"`
	}
	w := get(t, srv, "/agent", &agent)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "VALUE_ITERATION", agent.Name)
	assert.Equal(t, 3, agent.States)
	assert.Positive(t, agent.Iterations)

	var trace struct {
		Trace []metrics.Step `json:"trace"`
	}
	w = get(t, srv, "/trace", &trace)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, trace.Trace, agent.Iterations)

	w = get(t, srv, "/", nil)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
}

func TestStateRoutes(t *testing.T) {
	srv := newServer(t)

	var states struct {
		States []mdp.StateID `json:"states"`
	}
	w := get(t, srv, "/states", &states)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []mdp.StateID{0, 1, 2}, states.States)

	var s stateS
	w = get(t, srv, "/states/0", &s)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mdp.StateID(0), s.ID)
	assert.False(t, s.Terminal)
	assert.Equal(t, []mdp.ActionID{"a", "b"}, s.Actions)
	require.NotNil(t, s.Value)
	assert.InDelta(t, 1+0.9*2, *s.Value, 1e-9)

	w = get(t, srv, "/states/2", &s)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.Terminal)

	var q struct {
		State   mdp.StateID `json:"state"`
		QValues []qValueS   `json:"qvalues"`
	}
	w = get(t, srv, "/states/0/qvalues", &q)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, q.QValues, 2)
	assert.Equal(t, mdp.ActionID("a"), q.QValues[0].Action)
	assert.InDelta(t, 2.8, q.QValues[0].Value, 1e-9)
	assert.Equal(t, mdp.ActionID("b"), q.QValues[1].Action)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/states/42", nil).Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/states/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/states/42/qvalues", nil).Code)
}

func TestMetricsRoute(t *testing.T) {
	srv := newServer(t)
	w := get(t, srv, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mbrl_backups_total")
	assert.Contains(t, w.Body.String(), `algorithm="VALUE_ITERATION"`)
}
