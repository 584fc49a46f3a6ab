package types

import "container/heap"

// PriorityQueue[V] is a max-priority queue. The same value can be pushed
// multiple times with different priorities; there is no decrease-key.
// Not thread safe.
type PriorityQueue[V any] struct {
	h *entryHeap[V]
}

// NewPriorityQueue[V] creates an empty PriorityQueue
func NewPriorityQueue[V any]() *PriorityQueue[V] {
	return &PriorityQueue[V]{
		h: &entryHeap[V]{},
	}
}

// Push adds val with the given priority
func (q *PriorityQueue[V]) Push(val V, priority float64) {
	heap.Push(q.h, entry[V]{val: val, priority: priority})
}

// Pop removes and returns the value with the highest priority
func (q *PriorityQueue[V]) Pop() (V, float64, bool) {
	if q.h.Len() == 0 {
		var zero V
		return zero, 0, false
	}
	e := heap.Pop(q.h).(entry[V])
	return e.val, e.priority, true
}

// Peek returns the value with the highest priority without removing it
func (q *PriorityQueue[V]) Peek() (V, float64, bool) {
	if q.h.Len() == 0 {
		var zero V
		return zero, 0, false
	}
	e := q.h.entries[0]
	return e.val, e.priority, true
}

func (q *PriorityQueue[V]) Len() int {
	return q.h.Len()
}

func (q *PriorityQueue[V]) Empty() bool {
	return q.h.Len() == 0
}

type entry[V any] struct {
	val      V
	priority float64
	// seq breaks ties in insertion order
	seq uint64
}

type entryHeap[V any] struct {
	entries []entry[V]
	seq     uint64
}

func (h entryHeap[V]) Len() int { return len(h.entries) }

func (h entryHeap[V]) Less(i, j int) bool {
	if h.entries[i].priority == h.entries[j].priority {
		return h.entries[i].seq < h.entries[j].seq
	}
	return h.entries[i].priority > h.entries[j].priority
}

func (h entryHeap[V]) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *entryHeap[V]) Push(x any) {
	e := x.(entry[V])
	e.seq = h.seq
	h.seq++
	h.entries = append(h.entries, e)
}

func (h *entryHeap[V]) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	h.entries = old[:n-1]
	return e
}
