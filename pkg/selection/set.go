package selection

import (
	"errors"
	"slices"

	"github.com/matst80/slask-dashboard/pkg/types"
)

var ErrCompareFull = errors.New("compare list is full")

// Set holds unique product ids in insertion order. A capacity of zero means
// unbounded.
type Set struct {
	ids      []types.ProductId
	capacity int
}

func NewSet(capacity int, ids ...types.ProductId) *Set {
	s := &Set{ids: make([]types.ProductId, 0, len(ids)), capacity: capacity}
	for _, id := range ids {
		if s.Full() {
			break
		}
		s.Add(id)
	}
	return s
}

func (s *Set) Full() bool {
	return s.capacity > 0 && len(s.ids) >= s.capacity
}

func (s *Set) Contains(id types.ProductId) bool {
	return slices.Contains(s.ids, id)
}

// Add reports whether the id was inserted. Adding a present id is a no-op,
// adding to a full set returns ErrCompareFull.
func (s *Set) Add(id types.ProductId) (bool, error) {
	if s.Contains(id) {
		return false, nil
	}
	if s.Full() {
		return false, ErrCompareFull
	}
	s.ids = append(s.ids, id)
	return true, nil
}

func (s *Set) Remove(id types.ProductId) bool {
	idx := slices.Index(s.ids, id)
	if idx < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, idx, idx+1)
	return true
}

// Toggle removes a present id or adds a missing one, returning whether the
// id is now a member.
func (s *Set) Toggle(id types.ProductId) (bool, error) {
	if s.Remove(id) {
		return false, nil
	}
	if _, err := s.Add(id); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Set) Clear() {
	s.ids = s.ids[:0]
}

func (s *Set) Ids() []types.ProductId {
	return slices.Clone(s.ids)
}

func (s *Set) Len() int {
	return len(s.ids)
}

func (s *Set) Capacity() int {
	return s.capacity
}
