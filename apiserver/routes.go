package apiserver

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/metrics"
)

type stateS struct {
	ID       mdp.StateID    `json:"id"`
	Label    string         `json:"label"`
	Terminal bool           `json:"terminal"`
	Actions  []mdp.ActionID `json:"actions"`
	Value    *float64       `json:"value,omitempty"`
}

type qValueS struct {
	Action mdp.ActionID `json:"action"`
	Value  float64      `json:"value"`
}

func (srv *APIServer) handleAgent(c *gin.Context) {
	res := gin.H{
		"name":   srv.agent.Name(),
		"states": srv.env.NumStates(),
	}
	if tracer, ok := srv.agent.(agents.Tracer); ok {
		res["iterations"] = tracer.Trace().Length()
	}
	c.JSON(http.StatusOK, res)
}

func (srv *APIServer) handleTrace(c *gin.Context) {
	tracer, ok := srv.agent.(agents.Tracer)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"trace": []metrics.Step{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trace": tracer.Trace().Steps()})
}

func (srv *APIServer) handleStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"states": srv.env.StateIDs(),
	})
}

// state resolves the :state param, writing the error response when it fails
func (srv *APIServer) state(c *gin.Context) (mdp.State, bool) {
	param, ok := c.Params.Get("state")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing state param"})
		return nil, false
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state id should be an integer"})
		return nil, false
	}
	s, ok := srv.env.State(mdp.StateID(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "state id does not exist"})
		return nil, false
	}
	return s, true
}

func (srv *APIServer) handleStateGet(c *gin.Context) {
	s, ok := srv.state(c)
	if !ok {
		return
	}
	actions := s.Actions()
	res := stateS{
		ID:       s.ID(),
		Label:    s.String(),
		Terminal: len(actions) == 0,
		Actions:  make([]mdp.ActionID, len(actions)),
	}
	for i, a := range actions {
		res.Actions[i] = a.ID()
	}
	if valuer, ok := srv.agent.(agents.Valuer); ok {
		v := valuer.Value(s)
		res.Value = &v
	}
	c.JSON(http.StatusOK, res)
}

// handleQValues lists the Q-values of the state, best first
func (srv *APIServer) handleQValues(c *gin.Context) {
	s, ok := srv.state(c)
	if !ok {
		return
	}
	q := srv.agent.QValues(s)
	res := make([]qValueS, 0, len(q))
	for a, v := range q {
		res = append(res, qValueS{Action: a, Value: v})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Value != res[j].Value {
			return res[i].Value > res[j].Value
		}
		return res[i].Action < res[j].Action
	})
	c.JSON(http.StatusOK, gin.H{
		"state":   s.ID(),
		"qvalues": res,
	})
}
