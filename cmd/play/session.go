package play

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/netrixframework/mbrl/agents"
	"github.com/netrixframework/mbrl/mdp"
)

// Environment is an environment able to render its states
type Environment interface {
	mdp.Environment
	Print(io.Writer, mdp.State)
}

// Session walks the environment one action at a time, showing the Q-values
// the agent learned for every state on the way
type Session struct {
	env   Environment
	agent agents.Agent
	in    *bufio.Scanner
	out   io.Writer

	steps  int
	reward float64
}

// NewSession creates a Session reading choices from in
func NewSession(env Environment, agent agents.Agent, in io.Reader, out io.Writer) *Session {
	return &Session{
		env:   env,
		agent: agent,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Steps returns the number of actions taken
func (s *Session) Steps() int {
	return s.steps
}

// Reward returns the undiscounted reward collected so far
func (s *Session) Reward() float64 {
	return s.reward
}

// Run plays from the initial state until a terminal state is reached, the
// input ends or q is entered
func (s *Session) Run() error {
	state, err := s.env.Initialise()
	if err != nil {
		return err
	}
	for {
		s.env.Print(s.out, state)
		actions := s.actions(state)
		if len(actions) == 0 {
			fmt.Fprintf(s.out, "%s after %d steps, reward %.4f\n", aurora.Bold("terminal"), s.steps, s.reward)
			return nil
		}
		s.show(state, actions)

		action, ok := s.choose(actions)
		if !ok {
			fmt.Fprintf(s.out, "stopped after %d steps, reward %.4f\n", s.steps, s.reward)
			return nil
		}
		next := action.Destination()
		r := s.env.Reward(state, action, next)
		s.env.AddStateID(next.ID())
		s.steps++
		s.reward += r
		fmt.Fprintf(s.out, "%s -> reward %.4f\n", action.ID(), r)
		state = next
	}
}

// actions of state ordered best first by Q-value, stable otherwise
func (s *Session) actions(state mdp.State) []mdp.Action {
	actions := append([]mdp.Action(nil), state.Actions()...)
	q := s.agent.QValues(state)
	sort.SliceStable(actions, func(i, j int) bool {
		return q[actions[i].ID()] > q[actions[j].ID()]
	})
	return actions
}

func (s *Session) show(state mdp.State, actions []mdp.Action) {
	q := s.agent.QValues(state)
	for i, a := range actions {
		value := "-"
		if v, ok := q[a.ID()]; ok {
			value = fmt.Sprintf("%.4f", v)
		}
		line := fmt.Sprintf("[%d] %-20s %10s", i, a.ID(), value)
		if i == 0 {
			fmt.Fprintln(s.out, aurora.Green(line))
		} else {
			fmt.Fprintln(s.out, line)
		}
	}
	fmt.Fprint(s.out, "ENTER for the best action, an index or an action id, q to quit: ")
}

func (s *Session) choose(actions []mdp.Action) (mdp.Action, bool) {
	for s.in.Scan() {
		input := strings.TrimSpace(s.in.Text())
		switch input {
		case "":
			return actions[0], true
		case "q", "quit":
			return nil, false
		}
		if i, err := strconv.Atoi(input); err == nil && i >= 0 && i < len(actions) {
			return actions[i], true
		}
		for _, a := range actions {
			if string(a.ID()) == input {
				return a, true
			}
		}
		fmt.Fprintf(s.out, "%s: %q, try again: ", aurora.Red("unknown action"), input)
	}
	return nil, false
}
