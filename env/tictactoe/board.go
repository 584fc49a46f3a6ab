// Package tictactoe provides an Oracle revealing the tic-tac-toe game graph,
// with player 0 moving first.
package tictactoe

import (
	"strings"

	"github.com/netrixframework/mbrl/mdp"
)

// Cell contents
const (
	Empty int8 = iota
	// Nought is played by player 0
	Nought
	// Cross is played by player 1
	Cross
)

const cells = 9

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Board in row major order
type Board [cells]int8

// ID encodes the board in base 3, cell 0 being the least significant digit
func (b Board) ID() mdp.StateID {
	var id mdp.StateID
	for i := cells - 1; i >= 0; i-- {
		id = id*3 + mdp.StateID(b[i])
	}
	return id
}

// decode is the inverse of ID, false when id encodes no reachable board
func decode(id mdp.StateID) (Board, bool) {
	var b Board
	if id < 0 {
		return b, false
	}
	for i := 0; i < cells; i++ {
		b[i] = int8(id % 3)
		id /= 3
	}
	if id != 0 || !b.valid() {
		return b, false
	}
	return b, true
}

func (b Board) count(c int8) int {
	n := 0
	for _, v := range b {
		if v == c {
			n++
		}
	}
	return n
}

func (b Board) valid() bool {
	noughts, crosses := b.count(Nought), b.count(Cross)
	if noughts != crosses && noughts != crosses+1 {
		return false
	}
	_, nWins := b.winner(Nought)
	_, cWins := b.winner(Cross)
	return !(nWins && cWins)
}

// Turn returns the player to move
func (b Board) Turn() int {
	if b.count(Nought) == b.count(Cross) {
		return 0
	}
	return 1
}

func (b Board) winner(c int8) (int8, bool) {
	for _, l := range lines {
		if b[l[0]] == c && b[l[1]] == c && b[l[2]] == c {
			return c, true
		}
	}
	return Empty, false
}

// Winner returns the player owning a full line
func (b Board) Winner() (int, bool) {
	if _, ok := b.winner(Nought); ok {
		return 0, true
	}
	if _, ok := b.winner(Cross); ok {
		return 1, true
	}
	return -1, false
}

// Full is true when no cell is empty
func (b Board) Full() bool {
	return b.count(Empty) == 0
}

// Over is true when a player won or the board is full
func (b Board) Over() bool {
	_, won := b.Winner()
	return won || b.Full()
}

// Play returns the board after the player to move marks cell
func (b Board) Play(cell int) Board {
	next := b
	if b.Turn() == 0 {
		next[cell] = Nought
	} else {
		next[cell] = Cross
	}
	return next
}

func symbol(c int8) string {
	switch c {
	case Nought:
		return "O"
	case Cross:
		return "X"
	}
	return "."
}

func (b Board) String() string {
	var sb strings.Builder
	for i, c := range b {
		sb.WriteString(symbol(c))
		if i%3 == 2 && i != cells-1 {
			sb.WriteString("/")
		}
	}
	return sb.String()
}
