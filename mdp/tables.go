package mdp

// ValueTable maps states to their value V(s). Unknown states are worth 0.
type ValueTable map[StateID]float64

// NewValueTable creates an empty ValueTable
func NewValueTable() ValueTable {
	return make(ValueTable)
}

// Get returns V(s), 0 if unset
func (v ValueTable) Get(id StateID) float64 {
	return v[id]
}

func (v ValueTable) Set(id StateID, val float64) {
	v[id] = val
}

// Init sets V(s) to 0 unless already present
func (v ValueTable) Init(id StateID) {
	if _, ok := v[id]; !ok {
		v[id] = 0
	}
}

// Clone returns a copy of the table
func (v ValueTable) Clone() ValueTable {
	c := make(ValueTable, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// QTable maps (state, action) pairs to Q(s,a). Unknown pairs are worth 0.
type QTable struct {
	m    map[StateID]map[ActionID]float64
	size int
}

// NewQTable creates an empty QTable
func NewQTable() *QTable {
	return &QTable{
		m: make(map[StateID]map[ActionID]float64),
	}
}

// Get returns Q(s,a) and whether the pair was set
func (q *QTable) Get(state StateID, action ActionID) (float64, bool) {
	actions, ok := q.m[state]
	if !ok {
		return 0, false
	}
	val, ok := actions[action]
	return val, ok
}

// Value returns Q(s,a), 0 if unset
func (q *QTable) Value(k Key) float64 {
	val, _ := q.Get(k.State, k.Action)
	return val
}

func (q *QTable) Set(state StateID, action ActionID, val float64) {
	actions, ok := q.m[state]
	if !ok {
		actions = make(map[ActionID]float64)
		q.m[state] = actions
	}
	if _, ok := actions[action]; !ok {
		q.size++
	}
	actions[action] = val
}

// SetKey sets Q(k.State, k.Action)
func (q *QTable) SetKey(k Key, val float64) {
	q.Set(k.State, k.Action, val)
}

// Exists is true when at least one action of state has a value
func (q *QTable) Exists(state StateID) bool {
	return len(q.m[state]) > 0
}

// Values returns a copy of the action values recorded for state. Never nil.
func (q *QTable) Values(state StateID) map[ActionID]float64 {
	res := make(map[ActionID]float64, len(q.m[state]))
	for a, v := range q.m[state] {
		res[a] = v
	}
	return res
}

// States returns the number of states with at least one recorded value
func (q *QTable) States() int {
	return len(q.m)
}

// Len returns the number of recorded (state, action) pairs
func (q *QTable) Len() int {
	return q.size
}

// MaxQ returns the maximum Q(s,a) over the given actions of s, unset pairs
// counting as 0. Returns 0 when actions is empty.
func (q *QTable) MaxQ(s State, actions []Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	id := s.ID()
	max, _ := q.Get(id, actions[0].ID())
	for _, a := range actions[1:] {
		if val, _ := q.Get(id, a.ID()); val > max {
			max = val
		}
	}
	return max
}
