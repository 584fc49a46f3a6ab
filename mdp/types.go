// Package mdp defines the contract between the solvers and the environments
// that reveal a deterministic Markov Decision Process.
package mdp

import (
	"errors"
	"fmt"
	"strings"
)

// StateID is the stable identifier of a state, used as map key
type StateID int64

// ActionID is the stable identifier of an action. Unique among the outgoing
// actions of a state.
type ActionID string

// State is an opaque handle into the environment's graph.
type State interface {
	ID() StateID
	// Actions returns the outgoing actions in a stable order, materializing
	// them if needed. Empty for terminal states.
	Actions() []Action
	String() string
}

// Action is one state-to-state edge of the graph.
type Action interface {
	ID() ActionID
	// Name is the label of the action. Several actions can share a name.
	Name() string
	Source() State
	// Destination returns the successor state, discovering it if needed.
	Destination() State
}

// Key identifies a (state, action) pair
type Key struct {
	State  StateID
	Action ActionID
}

// KeyOf returns the key of the pair (s, a)
func KeyOf(s State, a Action) Key {
	return Key{State: s.ID(), Action: a.ID()}
}

func (k Key) String() string {
	return fmt.Sprintf("(%d,%s)", k.State, k.Action)
}

// IsTerminal is true when s has no outgoing actions
func IsTerminal(s State) bool {
	return len(s.Actions()) == 0
}

// Environment is the deterministic, discoverable MDP the solvers work on.
type Environment interface {
	// Explore populates the discovered state set according to the strategy.
	Explore(ExplorationStrategy) error
	// Initialise applies the setup transitions and returns the initial state.
	// Calling it again returns the same state.
	Initialise() (State, error)
	// CurrentState returns the state the environment currently is in
	CurrentState() State
	// State returns a previously discovered state
	State(StateID) (State, bool)
	// StateIDs returns the discovered state ids in ascending order
	StateIDs() []StateID
	// NumStates returns the number of discovered states
	NumStates() int
	// AddStateID records id as discovered
	AddStateID(StateID)
	// Reward of the transition s -a-> next
	Reward(s State, a Action, next State) float64
}

// ExplorationStrategy decides how the environment discovers states before learning
type ExplorationStrategy int

const (
	// Preprocess discovers the whole reachable graph
	Preprocess ExplorationStrategy = iota
	// Recursive walks the graph depth first from the initial state, within
	// the configured depth and breadth limits
	Recursive
	// None discovers nothing, states are found lazily by online learners
	None
)

// ErrUnknownExplorationStrategy is returned when parsing an unknown strategy name
var ErrUnknownExplorationStrategy = errors.New("unknown exploration strategy")

func (e ExplorationStrategy) String() string {
	switch e {
	case Preprocess:
		return "PREPROCESS"
	case Recursive:
		return "RECURSIVE"
	case None:
		return "NONE"
	}
	return fmt.Sprintf("ExplorationStrategy(%d)", int(e))
}

// ParseExplorationStrategy parses PREPROCESS, RECURSIVE or NONE, ignoring case
func ParseExplorationStrategy(s string) (ExplorationStrategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PREPROCESS":
		return Preprocess, nil
	case "RECURSIVE":
		return Recursive, nil
	case "NONE":
		return None, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownExplorationStrategy, s)
}
