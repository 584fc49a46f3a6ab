// Package graph provides an Oracle over an explicit, in-memory transition
// graph built in code or loaded from a JSON or YAML file.
package graph

import (
	"errors"
	"fmt"
	"sync"

	"github.com/netrixframework/mbrl/env"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
)

var (
	// ErrUnknownState is returned when referring to a state not in the graph
	ErrUnknownState = errors.New("unknown state")
	// ErrDuplicateAction is returned when two transitions of a state share an id
	ErrDuplicateAction = errors.New("duplicate action")
	// ErrMaterialized is returned when adding a transition to a state whose
	// actions were already handed out
	ErrMaterialized = errors.New("state already materialized")
)

type edge struct {
	id     mdp.ActionID
	name   string
	to     mdp.StateID
	reward float64
}

// Graph is a deterministic transition graph with a reward on every edge.
// States materialize their actions the first time they are asked for.
type Graph struct {
	initial mdp.StateID
	setup   []string

	states       map[mdp.StateID]*State
	edges        map[mdp.StateID][]edge
	materialized int
	lock         *sync.Mutex
}

var _ env.Oracle = &Graph{}

// New creates a graph holding only the initial state
func New(initial mdp.StateID) *Graph {
	g := &Graph{
		initial: initial,
		setup:   make([]string, 0),
		states:  make(map[mdp.StateID]*State),
		edges:   make(map[mdp.StateID][]edge),
		lock:    new(sync.Mutex),
	}
	g.AddState(initial, "")
	return g
}

// AddState adds the state if missing and sets its label when non empty
func (g *Graph) AddState(id mdp.StateID, label string) *Graph {
	g.lock.Lock()
	defer g.lock.Unlock()
	s := g.state(id)
	if label != "" {
		s.label = label
	}
	return g
}

func (g *Graph) state(id mdp.StateID) *State {
	s, ok := g.states[id]
	if !ok {
		s = &State{id: id, g: g}
		g.states[id] = s
	}
	return s
}

// AddTransition adds the edge from -> to. Missing states are created. An
// empty id defaults to "from->to" and an empty name to the id.
func (g *Graph) AddTransition(from, to mdp.StateID, id mdp.ActionID, name string, reward float64) error {
	g.lock.Lock()
	defer g.lock.Unlock()

	src := g.state(from)
	g.state(to)
	if src.actions != nil {
		return fmt.Errorf("%w: %d", ErrMaterialized, from)
	}
	if id == "" {
		id = mdp.ActionID(fmt.Sprintf("%d->%d", from, to))
	}
	if name == "" {
		name = string(id)
	}
	for _, e := range g.edges[from] {
		if e.id == id {
			return fmt.Errorf("%w: %s from state %d", ErrDuplicateAction, id, from)
		}
	}
	g.edges[from] = append(g.edges[from], edge{id: id, name: name, to: to, reward: reward})
	return nil
}

// Setup sets the names of the setup transitions followed by Initialise
func (g *Graph) Setup(names ...string) *Graph {
	g.setup = append(g.setup[:0], names...)
	return g
}

// SetupActions returns the names of the setup transitions
func (g *Graph) SetupActions() []string {
	return g.setup
}

// Root returns the initial state of the graph
func (g *Graph) Root() (mdp.State, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	s, ok := g.states[g.initial]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, g.initial)
	}
	return s, nil
}

// Lookup returns the state with the given id
func (g *Graph) Lookup(id mdp.StateID) (mdp.State, bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	s, ok := g.states[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// Reward returns the reward carried by the transition a
func (g *Graph) Reward(_ mdp.State, a mdp.Action, _ mdp.State) float64 {
	if t, ok := a.(*Transition); ok {
		return t.reward
	}
	return 0
}

// Len returns the number of states in the graph
func (g *Graph) Len() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return len(g.states)
}

// Materialized returns the number of states whose actions were handed out
func (g *Graph) Materialized() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.materialized
}

func (g *Graph) materialize(s *State) []mdp.Action {
	g.lock.Lock()
	defer g.lock.Unlock()
	if s.actions != nil {
		return s.actions
	}
	edges := g.edges[s.id]
	actions := make([]mdp.Action, len(edges))
	for i, e := range edges {
		actions[i] = &Transition{
			edge:   e,
			source: s,
			dest:   g.state(e.to),
		}
	}
	s.actions = actions
	g.materialized++
	return actions
}

// Environment returns an env.Environment over the graph, rewarding every
// transition with its edge reward. The graph's setup transitions override
// the ones of config when present.
func (g *Graph) Environment(config *env.Config, logger *log.Logger) *env.Environment {
	c := env.DefaultConfig()
	if config != nil {
		c = &env.Config{
			SetupActions: config.SetupActions,
			MaxDepth:     config.MaxDepth,
			MaxBreadth:   config.MaxBreadth,
		}
	}
	if len(g.setup) > 0 {
		c.SetupActions = g.setup
	}
	return env.New(g, g.Reward, c, logger)
}

// State of a Graph
type State struct {
	id      mdp.StateID
	label   string
	g       *Graph
	actions []mdp.Action
}

var _ mdp.State = &State{}

func (s *State) ID() mdp.StateID {
	return s.id
}

func (s *State) Label() string {
	return s.label
}

// Actions returns the outgoing transitions in insertion order
func (s *State) Actions() []mdp.Action {
	return s.g.materialize(s)
}

func (s *State) String() string {
	if s.label != "" {
		return s.label
	}
	return fmt.Sprintf("s%d", s.id)
}

// Transition is an edge of a Graph
type Transition struct {
	edge
	source *State
	dest   *State
}

var _ mdp.Action = &Transition{}

func (t *Transition) ID() mdp.ActionID {
	return t.id
}

func (t *Transition) Name() string {
	return t.name
}

func (t *Transition) Source() mdp.State {
	return t.source
}

func (t *Transition) Destination() mdp.State {
	return t.dest
}

// Reward carried by the transition
func (t *Transition) Reward() float64 {
	return t.reward
}
