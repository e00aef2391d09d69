package model

import "sort"

// PackageSet is a set of package names (no versions). It is used both for
// the suspected-native accumulator and for the values of the reverse file
// index, where a file may be claimed by more than one package.
type PackageSet map[string]struct{}

// NewPackageSet builds a set from the given names.
func NewPackageSet(names ...string) PackageSet {
	s := make(PackageSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a name into the set.
func (s PackageSet) Add(name string) {
	s[name] = struct{}{}
}

// Contains reports whether the set holds the given name.
func (s PackageSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Remove deletes a name from the set; removing an absent name is a no-op.
func (s PackageSet) Remove(name string) {
	delete(s, name)
}

// Len returns the number of names in the set.
func (s PackageSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s PackageSet) Clone() PackageSet {
	out := make(PackageSet, len(s))
	for name := range s {
		out[name] = struct{}{}
	}
	return out
}

// Names returns the set's members sorted for deterministic output.
func (s PackageSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
