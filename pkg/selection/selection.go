// Package selection tracks which array fields the user flagged for processing.
package selection

import "sort"

// Set is an immutable set of field names. The zero value is empty.
type Set struct {
	names map[string]struct{}
}

// New returns a set holding names.
func New(names ...string) Set {
	s := Set{}
	for _, n := range names {
		s = s.Toggle(n, true)
	}
	return s
}

// Toggle returns a copy of s with name added (selected) or removed.
// Adding a present name or removing an absent one returns s unchanged.
func (s Set) Toggle(name string, selected bool) Set {
	if s.Has(name) == selected {
		return s
	}
	next := make(map[string]struct{}, len(s.names)+1)
	for n := range s.names {
		next[n] = struct{}{}
	}
	if selected {
		next[name] = struct{}{}
	} else {
		delete(next, name)
	}
	return Set{names: next}
}

// Has reports whether name is selected.
func (s Set) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of selected names.
func (s Set) Len() int {
	return len(s.names)
}

// Names returns the selected names in lexical order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
