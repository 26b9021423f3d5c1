package model

import "sort"

// RefSet is the set encoding used for every relationship field in the graph:
// membership is the presence of a key mapped to true. A key mapped to false
// or null is treated the same as an absent key, which is how the store
// tombstones individual members without touching siblings.
type RefSet map[string]bool

// NewRefSet builds a RefSet containing the given ids.
func NewRefSet(ids ...string) RefSet {
	s := make(RefSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports whether id is a member.
func (s RefSet) Has(id string) bool {
	return s[id]
}

// Add marks id as a member and returns the set for chaining. Add on a nil
// set allocates.
func (s *RefSet) Add(id string) RefSet {
	if *s == nil {
		*s = make(RefSet)
	}
	(*s)[id] = true
	return *s
}

// Remove deletes id from the set. Removing an absent id is a no-op.
func (s RefSet) Remove(id string) {
	delete(s, id)
}

// Len returns the number of members. False/tombstoned keys do not count.
func (s RefSet) Len() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// IDs returns the member ids sorted lexicographically. Sorting is for
// deterministic iteration in callers and tests; the set itself is unordered.
func (s RefSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id, ok := range s {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a copy sharing no storage with s. Clone of nil is nil.
func (s RefSet) Clone() RefSet {
	if s == nil {
		return nil
	}
	out := make(RefSet, len(s))
	for id, ok := range s {
		out[id] = ok
	}
	return out
}

// Diff returns the members of s that are not members of other.
func (s RefSet) Diff(other RefSet) RefSet {
	out := make(RefSet)
	for id, ok := range s {
		if ok && !other.Has(id) {
			out[id] = true
		}
	}
	return out
}
