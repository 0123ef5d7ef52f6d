package set

import (
	"encoding/json"
	"iter"
	"maps"
	"slices"
)

// Set provides a wrapper around a map[T]struct{}.
// The zero value is an empty set ready to use.
type Set[T comparable] struct {
	values map[T]struct{}
}

// Of creates a set containing the given values.
func Of[T comparable](values ...T) Set[T] {
	var s Set[T]
	for _, value := range values {
		s.Insert(value)
	}

	return s
}

// Insert adds value and reports whether it was not yet present.
func (s *Set[T]) Insert(value T) bool {
	if s.values == nil {
		s.values = make(map[T]struct{})
	}

	if _, exists := s.values[value]; exists {
		return false
	}

	s.values[value] = struct{}{}
	return true
}

// Remove deletes value and reports whether it was present.
func (s *Set[T]) Remove(value T) bool {
	if _, exists := s.values[value]; !exists {
		return false
	}

	delete(s.values, value)
	return true
}

func (s *Set[T]) Has(value T) bool {
	_, exists := s.values[value]
	return exists
}

// Values yields the values in no particular order.
func (s *Set[T]) Values() iter.Seq[T] {
	return maps.Keys(s.values)
}

// Sorted returns the values ordered by cmp.
func (s *Set[T]) Sorted(cmp func(a, b T) int) []T {
	return slices.SortedFunc(s.Values(), cmp)
}

func (s *Set[T]) Len() int {
	return len(s.values)
}

// PopOne removes and returns an arbitrary value.
func (s *Set[T]) PopOne() (T, bool) {
	for value := range s.values {
		delete(s.values, value)
		return value, true
	}

	var tNil T
	return tNil, false
}

// MarshalJSON encodes the set as an array. Values with a Compare method and
// plain ints and strings are sorted, so equal sets encode to equal bytes.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	values := slices.Collect(maps.Keys(s.values))
	if values == nil {
		values = []T{}
	}

	sortValues(values)

	return json.Marshal(values)
}

type comparer[T any] interface {
	Compare(other T) int
}

func sortValues[T comparable](values []T) {
	if len(values) < 2 {
		return
	}

	if _, ok := any(values[0]).(comparer[T]); ok {
		slices.SortFunc(values, func(a, b T) int {
			return any(a).(comparer[T]).Compare(b)
		})

		return
	}

	switch values := any(values).(type) {
	case []int:
		slices.Sort(values)
	case []uint32:
		slices.Sort(values)
	case []uint64:
		slices.Sort(values)
	case []string:
		slices.Sort(values)
	}
}

func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	*s = Of(values...)
	return nil
}
