package util

import (
	crand "crypto/rand"
	"encoding/binary"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/rand"
)

// Term returns a channel which receives a message when there is an interrupt
// or a termination signal
func Term() chan os.Signal {
	termCh := make(chan os.Signal, 1)
	signal.Notify(termCh, os.Interrupt, syscall.SIGTERM)
	return termCh
}

// ResolveSeed returns seed unchanged when non zero, otherwise a fresh seed
// read from crypto/rand, falling back to the clock.
func ResolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// NewRand returns a generator over a source seeded with ResolveSeed(seed).
// The source is compatible with gonum distributions.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(ResolveSeed(seed)))
}
