// Package adoption tracks which practices a user has adopted and derives
// progress aggregates over the practice dependency graph.
//
// The adopted-id set is the single owned piece of mutable state. It is only
// changed through the narrow [Set] API, which notifies registered observers
// after every effective mutation — no raw field is ever exposed, so readers
// can cache snapshots safely. Aggregation functions read the set but never
// mutate it.
package adoption

import (
	"encoding/json"
	"slices"
	"sync"
)

// Set is the owned collection of adopted practice ids. Observers registered
// with [Set.Subscribe] are called synchronously after each mutation that
// changed the set. Safe for concurrent use.
type Set struct {
	mu        sync.RWMutex
	ids       map[string]struct{}
	observers []func()
}

// NewSet creates an empty adopted set.
func NewSet() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// NewSetFrom creates a set pre-populated with the given ids.
func NewSetFrom(ids []string) *Set {
	s := NewSet()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Subscribe registers an observer invoked after every effective mutation.
// Observers run synchronously on the mutating goroutine, outside the set's
// lock, in registration order.
func (s *Set) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Has reports whether id is adopted.
func (s *Set) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of adopted ids.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the adopted ids in ascending order.
func (s *Set) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Adopt marks id adopted. Adopting an already-adopted id is a no-op and
// does not notify observers.
func (s *Set) Adopt(id string) {
	s.mu.Lock()
	if _, ok := s.ids[id]; ok {
		s.mu.Unlock()
		return
	}
	s.ids[id] = struct{}{}
	obs := slices.Clone(s.observers)
	s.mu.Unlock()
	notify(obs)
}

// Unadopt removes id from the set. Removing an absent id is a no-op.
func (s *Set) Unadopt(id string) {
	s.mu.Lock()
	if _, ok := s.ids[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.ids, id)
	obs := slices.Clone(s.observers)
	s.mu.Unlock()
	notify(obs)
}

// Toggle flips the adoption state of id and returns the new state.
func (s *Set) Toggle(id string) bool {
	if s.Has(id) {
		s.Unadopt(id)
		return false
	}
	s.Adopt(id)
	return true
}

// Clear removes every adopted id. Clearing an empty set is a no-op.
func (s *Set) Clear() {
	s.mu.Lock()
	if len(s.ids) == 0 {
		s.mu.Unlock()
		return
	}
	s.ids = make(map[string]struct{})
	obs := slices.Clone(s.observers)
	s.mu.Unlock()
	notify(obs)
}

func notify(observers []func()) {
	for _, fn := range observers {
		fn()
	}
}

// MarshalJSON serializes the set as a sorted id array, the shape persisted
// by client-local storage so adoption state survives reload.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON replaces the set's contents with the decoded id array.
// Observers are not notified; unmarshaling is construction, not mutation.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	s.mu.Lock()
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.mu.Unlock()
	return nil
}
