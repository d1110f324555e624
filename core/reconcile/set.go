package reconcile

import "sort"

// Set is an unordered collection of string keys.
type Set map[string]struct{}

// NewSet returns a set holding the given keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, key := range keys {
		s[key] = struct{}{}
	}
	return s
}

// Add inserts key into the set.
func (s Set) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is in the set.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Difference returns the keys of s that are not in other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for key := range s {
		if !other.Has(key) {
			out[key] = struct{}{}
		}
	}
	return out
}

// Sorted returns the keys in ascending order for deterministic output.
func (s Set) Sorted() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
