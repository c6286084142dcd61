package cart

import (
	"log/slog"
	"sync"
)

// Store is the shared cart. Dispatches are applied one at a time.
type Store struct {
	mu     sync.Mutex
	policy Policy
	state  State
}

// NewStore creates an empty cart with the given policy.
func NewStore(policy Policy) *Store {
	return &Store{policy: policy, state: Empty()}
}

// Dispatch applies a to the current state and returns a copy of the result.
// On error the state is unchanged.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.policy, s.state, a)
	if err != nil {
		slog.Debug("cart action rejected", "action", a, "error", err)
		return s.state.Clone(), err
	}
	s.state = next
	return next.Clone(), nil
}

// State returns a copy of the current cart.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AddItem adds item, merging quantities with an existing line of the same ID.
func (s *Store) AddItem(item Item) State {
	st, _ := s.Dispatch(AddItem{Item: item})
	return st
}

// RemoveItem deletes the line with the given ID, if present.
func (s *Store) RemoveItem(id string) State {
	st, _ := s.Dispatch(RemoveItem{ID: id})
	return st
}

// UpdateQuantity sets the quantity of a line and recomputes the total.
func (s *Store) UpdateQuantity(id string, qty int) (State, error) {
	return s.Dispatch(UpdateQuantity{ID: id, Quantity: qty})
}

// Clear empties the cart.
func (s *Store) Clear() State {
	st, _ := s.Dispatch(Clear{})
	return st
}
