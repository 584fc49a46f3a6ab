package agents

import (
	"github.com/netrixframework/mbrl/mdp"
	"golang.org/x/exp/rand"
)

type modelEntry struct {
	next   mdp.State
	reward float64
}

// model remembers the last observed outcome of every executed pair. Keys
// are kept in insertion order for uniform sampling.
type model struct {
	entries map[mdp.Key]modelEntry
	keys    []mdp.Key
}

func newModel() *model {
	return &model{
		entries: make(map[mdp.Key]modelEntry),
		keys:    make([]mdp.Key, 0),
	}
}

func (m *model) record(k mdp.Key, next mdp.State, reward float64) {
	if _, ok := m.entries[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.entries[k] = modelEntry{next: next, reward: reward}
}

func (m *model) sample(r *rand.Rand) (mdp.Key, modelEntry) {
	k := m.keys[r.Intn(len(m.keys))]
	return k, m.entries[k]
}

func (m *model) Len() int {
	return len(m.keys)
}
