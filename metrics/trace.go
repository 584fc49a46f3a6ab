package metrics

import (
	"encoding/json"
	"sync"
)

// Step is one iteration of a learning run
type Step struct {
	Iteration int     `json:"iteration"`
	Delta     float64 `json:"delta"`
	Backups   int     `json:"backups"`
}

// Trace is the sequence of iterations of a learning run
type Trace struct {
	steps []Step
	lock  *sync.Mutex
}

// NewTrace creates an empty Trace
func NewTrace() *Trace {
	return &Trace{
		steps: make([]Step, 0),
		lock:  new(sync.Mutex),
	}
}

// Add appends an iteration, numbered from 1
func (t *Trace) Add(delta float64, backups int) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.steps = append(t.steps, Step{
		Iteration: len(t.steps) + 1,
		Delta:     delta,
		Backups:   backups,
	})
}

func (t *Trace) Length() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.steps)
}

func (t *Trace) Get(i int) (Step, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if i < 0 || i >= len(t.steps) {
		return Step{}, false
	}
	return t.steps[i], true
}

// Last returns the most recent iteration
func (t *Trace) Last() (Step, bool) {
	return t.Get(t.Length() - 1)
}

// Steps returns a copy of the recorded iterations
func (t *Trace) Steps() []Step {
	t.lock.Lock()
	defer t.lock.Unlock()
	res := make([]Step, len(t.steps))
	copy(res, t.steps)
	return res
}

// Deltas returns the delta of every iteration in order
func (t *Trace) Deltas() []float64 {
	t.lock.Lock()
	defer t.lock.Unlock()
	res := make([]float64, len(t.steps))
	for i, s := range t.steps {
		res[i] = s.Delta
	}
	return res
}

// TotalBackups sums the backups over all iterations
func (t *Trace) TotalBackups() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	total := 0
	for _, s := range t.steps {
		total += s.Backups
	}
	return total
}

func (t *Trace) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.steps = make([]Step, 0)
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Steps())
}
