package tictactoe

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/netrixframework/mbrl/env"
	"github.com/netrixframework/mbrl/log"
	"github.com/netrixframework/mbrl/mdp"
)

// Rewards of the transition into a board
const (
	WinReward  = 1.0
	LossReward = -1.0
	DrawReward = 0.0
	MoveReward = -0.25
)

// RewardStrategy decides when the reward of a board is evaluated
type RewardStrategy int

const (
	// OnTheFly evaluates the board every time a reward is asked for
	OnTheFly RewardStrategy = iota
	// OnceAndForAll evaluates every board once and caches the result
	OnceAndForAll
)

// ErrUnknownRewardStrategy is returned when parsing an unknown strategy name
var ErrUnknownRewardStrategy = errors.New("unknown reward strategy")

func (r RewardStrategy) String() string {
	switch r {
	case OnTheFly:
		return "ONTHEFLY"
	case OnceAndForAll:
		return "ONCEANDFORALL"
	}
	return fmt.Sprintf("RewardStrategy(%d)", int(r))
}

// ParseRewardStrategy parses ONTHEFLY or ONCEANDFORALL, ignoring case
func ParseRewardStrategy(s string) (RewardStrategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ONTHEFLY":
		return OnTheFly, nil
	case "ONCEANDFORALL":
		return OnceAndForAll, nil
	}
	return OnTheFly, fmt.Errorf("%w: %q", ErrUnknownRewardStrategy, s)
}

// Game reveals the boards reachable from the empty board
type Game struct {
	strategy RewardStrategy

	states      map[mdp.StateID]*State
	rewards     map[mdp.StateID]float64
	evaluations int
	lock        *sync.Mutex
}

var _ env.Oracle = &Game{}
var _ env.Printer = &Game{}

func New(strategy RewardStrategy) *Game {
	return &Game{
		strategy: strategy,
		states:   make(map[mdp.StateID]*State),
		rewards:  make(map[mdp.StateID]float64),
		lock:     new(sync.Mutex),
	}
}

// Environment returns an env.Environment over the game. The game has no
// setup transitions.
func (g *Game) Environment(config *env.Config, logger *log.Logger) *env.Environment {
	c := &env.Config{MaxDepth: -1, MaxBreadth: -1}
	if config != nil {
		c.MaxDepth = config.MaxDepth
		c.MaxBreadth = config.MaxBreadth
	}
	return env.New(g, g.Reward, c, logger)
}

func (g *Game) state(b Board) *State {
	g.lock.Lock()
	defer g.lock.Unlock()
	id := b.ID()
	s, ok := g.states[id]
	if !ok {
		s = &State{board: b, id: id, g: g}
		g.states[id] = s
	}
	return s
}

// Root returns the empty board
func (g *Game) Root() (mdp.State, error) {
	return g.state(Board{}), nil
}

// Lookup returns the board encoded by id
func (g *Game) Lookup(id mdp.StateID) (mdp.State, bool) {
	b, ok := decode(id)
	if !ok {
		return nil, false
	}
	return g.state(b), true
}

// Reward of moving into next: WinReward when player 0 won, LossReward when
// player 1 won, DrawReward on a full board and MoveReward otherwise
func (g *Game) Reward(_ mdp.State, _ mdp.Action, next mdp.State) float64 {
	if g.strategy == OnceAndForAll {
		g.lock.Lock()
		r, ok := g.rewards[next.ID()]
		g.lock.Unlock()
		if ok {
			return r
		}
	}
	r := g.evaluate(next)
	if g.strategy == OnceAndForAll {
		g.lock.Lock()
		g.rewards[next.ID()] = r
		g.lock.Unlock()
	}
	return r
}

func (g *Game) evaluate(s mdp.State) float64 {
	g.lock.Lock()
	g.evaluations++
	g.lock.Unlock()

	b, ok := boardOf(s)
	if !ok {
		return 0
	}
	if player, won := b.Winner(); won {
		if player == 0 {
			return WinReward
		}
		return LossReward
	}
	if b.Full() {
		return DrawReward
	}
	return MoveReward
}

// Evaluations returns how many times a board reward was computed
func (g *Game) Evaluations() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.evaluations
}

func boardOf(s mdp.State) (Board, bool) {
	if st, ok := s.(*State); ok {
		return st.board, true
	}
	return decode(s.ID())
}

// Print renders the board of s with colors
func (g *Game) Print(w io.Writer, s mdp.State) {
	b, ok := boardOf(s)
	if !ok {
		fmt.Fprintln(w, s.String())
		return
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			c := b[row*3+col]
			switch c {
			case Nought:
				fmt.Fprint(w, aurora.Blue(" O "))
			case Cross:
				fmt.Fprint(w, aurora.Red(" X "))
			default:
				fmt.Fprint(w, aurora.Faint(" . "))
			}
			if col < 2 {
				fmt.Fprint(w, aurora.White("|"))
			}
		}
		fmt.Fprintln(w)
	}
}

// State is a board of the game
type State struct {
	id    mdp.StateID
	board Board
	g     *Game

	once    sync.Once
	actions []mdp.Action
}

var _ mdp.State = &State{}

func (s *State) ID() mdp.StateID {
	return s.id
}

func (s *State) Board() Board {
	return s.board
}

// Actions returns one move per empty cell in row major order, none once the
// game is over
func (s *State) Actions() []mdp.Action {
	s.once.Do(func() {
		s.actions = make([]mdp.Action, 0)
		if s.board.Over() {
			return
		}
		for cell, c := range s.board {
			if c == Empty {
				s.actions = append(s.actions, &Move{source: s, cell: cell})
			}
		}
	})
	return s.actions
}

func (s *State) String() string {
	return s.board.String()
}

// Move marks an empty cell for the player to move
type Move struct {
	source *State
	cell   int
}

var _ mdp.Action = &Move{}

func (m *Move) ID() mdp.ActionID {
	return mdp.ActionID(fmt.Sprintf("play(%d,%d)", m.cell/3, m.cell%3))
}

func (m *Move) Name() string {
	return "play"
}

func (m *Move) Source() mdp.State {
	return m.source
}

// Destination returns the board after the move
func (m *Move) Destination() mdp.State {
	return m.source.g.state(m.source.board.Play(m.cell))
}

// Cell returns the row and column of the move
func (m *Move) Cell() (int, int) {
	return m.cell / 3, m.cell % 3
}
