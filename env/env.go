// Package env implements mdp.Environment over an Oracle that reveals the
// state graph on demand.
package env

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
	"github.com/netrixframework/mbrl/types"
)

var (
	// ErrNoRoot is returned when the oracle does not provide a root state
	ErrNoRoot = errors.New("oracle has no root state")
	// ErrUnknownStrategy is returned by Explore for unsupported strategies
	ErrUnknownStrategy = errors.New("unsupported exploration strategy")
)

// Default setup transitions applied by Initialise
const (
	SetupConstants    = "SETUP_CONSTANTS"
	InitialiseMachine = "INITIALISE_MACHINE"
)

// Oracle is the backend revealing the graph
type Oracle interface {
	// Root returns the root state, before any setup transition
	Root() (mdp.State, error)
	// Lookup returns the state with the given id if the oracle knows it
	Lookup(mdp.StateID) (mdp.State, bool)
}

// Printer is implemented by oracles that can render their states
type Printer interface {
	Print(io.Writer, mdp.State)
}

// RewardFunc computes the reward of a transition
type RewardFunc func(s mdp.State, a mdp.Action, next mdp.State) float64

// Config of the Environment
type Config struct {
	// SetupActions are followed from the root, in order, when present
	SetupActions []string
	// MaxDepth bounds Recursive exploration, -1 for unbounded
	MaxDepth int
	// MaxBreadth bounds the children expanded per state by Recursive exploration, -1 for unbounded
	MaxBreadth int
}

// DefaultConfig returns a Config with unbounded recursive exploration and
// the SETUP_CONSTANTS, INITIALISE_MACHINE setup transitions
func DefaultConfig() *Config {
	return &Config{
		SetupActions: []string{SetupConstants, InitialiseMachine},
		MaxDepth:     -1,
		MaxBreadth:   -1,
	}
}

// Environment implements mdp.Environment
type Environment struct {
	oracle Oracle
	reward RewardFunc
	config *Config

	initial mdp.State
	current mdp.State
	states  map[mdp.StateID]mdp.State
	ids     *types.Set[mdp.StateID]
	lock    *sync.Mutex

	Logger *log.Logger
}

var _ mdp.Environment = &Environment{}

// New creates an Environment. A nil config uses DefaultConfig and a nil
// logger uses log.DefaultLogger.
func New(oracle Oracle, reward RewardFunc, config *Config, logger *log.Logger) *Environment {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &Environment{
		oracle: oracle,
		reward: reward,
		config: config,
		states: make(map[mdp.StateID]mdp.State),
		ids:    types.NewSet[mdp.StateID](),
		lock:   new(sync.Mutex),
		Logger: logger.With(log.LogParams{"service": "Environment"}),
	}
}

// Oracle returns the backend of the environment
func (e *Environment) Oracle() Oracle {
	return e.oracle
}

// Initialise follows the setup transitions from the root and returns the
// resulting initial state. Subsequent calls return the same state and reset
// the current state to it.
func (e *Environment) Initialise() (mdp.State, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.initial != nil {
		e.current = e.initial
		return e.initial, nil
	}

	root, err := e.oracle.Root()
	if err != nil {
		return nil, fmt.Errorf("initialising environment: %w", err)
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	state := root
	for _, name := range e.config.SetupActions {
		if a := findAction(state, name); a != nil {
			e.Logger.With(log.LogParams{"action": name}).Debug("Applying setup transition")
			state = a.Destination()
		}
	}
	e.initial = state
	e.current = state
	e.states[state.ID()] = state
	return state, nil
}

func findAction(s mdp.State, name string) mdp.Action {
	for _, a := range s.Actions() {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// Explore discovers states according to strategy
func (e *Environment) Explore(strategy mdp.ExplorationStrategy) error {
	initial, err := e.Initialise()
	if err != nil {
		return err
	}
	e.Logger.With(log.LogParams{"strategy": strategy.String()}).Info("Start exploration")
	done := e.Logger.With(log.LogParams{"strategy": strategy.String()}).Timed("End of exploration")

	switch strategy {
	case mdp.Preprocess:
		e.preprocess(initial)
	case mdp.Recursive:
		e.recursive(initial, make(map[mdp.StateID]bool), e.config.MaxDepth, e.config.MaxBreadth)
	case mdp.None:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}

	e.Logger.With(log.LogParams{"states": e.ids.Size()}).Info("Discovered states")
	done()
	return nil
}

// preprocess discovers every state reachable from initial, breadth first
func (e *Environment) preprocess(initial mdp.State) {
	visited := map[mdp.StateID]bool{initial.ID(): true}
	queue := []mdp.State{initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		e.discover(s)
		for _, a := range s.Actions() {
			next := a.Destination()
			if visited[next.ID()] {
				continue
			}
			visited[next.ID()] = true
			queue = append(queue, next)
		}
	}
}

// recursive walks depth first. A state is expanded only the first time it is
// visited, with whatever depth budget remains at that point.
func (e *Environment) recursive(s mdp.State, visited map[mdp.StateID]bool, maxDepth, maxBreadth int) {
	if visited[s.ID()] {
		return
	}
	visited[s.ID()] = true
	e.discover(s)
	if maxDepth != -1 && maxDepth <= 0 {
		return
	}

	nextDepth := -1
	if maxDepth != -1 {
		nextDepth = maxDepth - 1
	}
	for i, a := range s.Actions() {
		if maxBreadth != -1 && i >= maxBreadth {
			break
		}
		e.recursive(a.Destination(), visited, nextDepth, maxBreadth)
	}
}

func (e *Environment) discover(s mdp.State) {
	e.lock.Lock()
	e.states[s.ID()] = s
	e.lock.Unlock()
	e.ids.Add(s.ID())
}

// CurrentState returns the current state, nil before Initialise
func (e *Environment) CurrentState() mdp.State {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.current
}

// State returns the state with the given id
func (e *Environment) State(id mdp.StateID) (mdp.State, bool) {
	e.lock.Lock()
	s, ok := e.states[id]
	e.lock.Unlock()
	if ok {
		return s, true
	}
	s, ok = e.oracle.Lookup(id)
	if !ok {
		return nil, false
	}
	e.lock.Lock()
	e.states[id] = s
	e.lock.Unlock()
	return s, true
}

// StateIDs returns the discovered state ids in ascending order
func (e *Environment) StateIDs() []mdp.StateID {
	return e.ids.Iter()
}

func (e *Environment) NumStates() int {
	return e.ids.Size()
}

// AddStateID marks id as discovered
func (e *Environment) AddStateID(id mdp.StateID) {
	e.ids.Add(id)
}

// Reward of the transition s -a-> next
func (e *Environment) Reward(s mdp.State, a mdp.Action, next mdp.State) float64 {
	return e.reward(s, a, next)
}

// Print renders s with the oracle's printer, or its String form otherwise
func (e *Environment) Print(w io.Writer, s mdp.State) {
	if p, ok := e.oracle.(Printer); ok {
		p.Print(w, s)
		return
	}
	fmt.Fprintln(w, s.String())
}
