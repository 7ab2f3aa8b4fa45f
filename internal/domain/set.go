package domain

import (
	"slices"
	"strings"
)

// Set is an immutable, sorted collection of unique tokens.
type Set[T ~string] struct {
	items []T
}

// NewSet builds a set from the given items, dropping duplicates and empty values.
func NewSet[T ~string](items ...T) Set[T] {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	slices.Sort(out)
	return Set[T]{items: slices.Compact(out)}
}

func (s Set[T]) Len() int      { return len(s.items) }
func (s Set[T]) IsEmpty() bool { return len(s.items) == 0 }

// Items returns a copy of the members in sorted order.
func (s Set[T]) Items() []T {
	return slices.Clone(s.items)
}

// Strings returns the members as plain strings.
func (s Set[T]) Strings() []string {
	out := make([]string, len(s.items))
	for i, item := range s.items {
		out[i] = string(item)
	}
	return out
}

func (s Set[T]) Contains(item T) bool {
	_, found := slices.BinarySearch(s.items, item)
	return found
}

// Intersects reports whether the two sets share at least one member.
func (s Set[T]) Intersects(other Set[T]) bool {
	for _, item := range s.items {
		if other.Contains(item) {
			return true
		}
	}
	return false
}

func (s Set[T]) String() string {
	return strings.Join(s.Strings(), ", ")
}

// parseSet keeps the tokens that the parser recognizes and silently skips the rest.
func parseSet[T ~string](raw []string, parse func(string) (T, bool)) Set[T] {
	parsed := make([]T, 0, len(raw))
	for _, token := range raw {
		if v, ok := parse(token); ok {
			parsed = append(parsed, v)
		}
	}
	return NewSet(parsed...)
}
