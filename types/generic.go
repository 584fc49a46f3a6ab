package types

import (
	"sort"
	"sync"

	"golang.org/x/exp/constraints"
)

// Set[T] is thread safe generic set implementation
type Set[T constraints.Ordered] struct {
	m    map[T]struct{}
	lock *sync.Mutex
}

// NewSet[T] creates an empty Set
func NewSet[T constraints.Ordered]() *Set[T] {
	return &Set[T]{
		m:    make(map[T]struct{}),
		lock: new(sync.Mutex),
	}
}

// Add inserts elem, returns true if it was not already present
func (s *Set[T]) Add(elem T) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.m[elem]; ok {
		return false
	}
	s.m[elem] = struct{}{}
	return true
}

func (s *Set[T]) Contains(elem T) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.m[elem]
	return ok
}

func (s *Set[T]) Size() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.m)
}

// Iter returns the elements in ascending order
func (s *Set[T]) Iter() []T {
	s.lock.Lock()
	elems := make([]T, 0, len(s.m))
	for k := range s.m {
		elems = append(elems, k)
	}
	s.lock.Unlock()

	sort.Slice(elems, func(i, j int) bool { return elems[i] < elems[j] })
	return elems
}

func (s *Set[T]) RemoveAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.m = make(map[T]struct{})
}

// Min[T] abstracts the min function for all ordered types T
func Min[T constraints.Ordered](one, two T) T {
	if one < two {
		return one
	}
	return two
}
