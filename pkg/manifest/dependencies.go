package manifest

import (
	"sort"
	"strings"
)

// MarkerPrefix is prepended to every package name so manifest entries and
// identifiers extracted from vendor paths agree byte-for-byte.
const MarkerPrefix = "vendor/composer/.."

// Identifier returns the normalized identifier for a "vendor/package" name.
func Identifier(pkg string) string {
	return MarkerPrefix + pkg
}

// DependencySet is an immutable set of normalized package identifiers.
type DependencySet struct {
	ids map[string]struct{}
}

// NewDependencySet builds a set from identifiers that already carry MarkerPrefix.
func NewDependencySet(ids ...string) DependencySet {
	set := DependencySet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		set.ids[id] = struct{}{}
	}
	return set
}

// Has reports whether id is a member of the set.
func (s DependencySet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of identifiers in the set.
func (s DependencySet) Len() int {
	return len(s.ids)
}

// Sorted returns the identifiers in lexical order.
func (s DependencySet) Sorted() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Loader derives a DependencySet from the manifest at path.
type Loader func(path string) DependencySet

// LoadPrimaryDependencies returns the packages declared in the manifest's
// require and require-dev groups. Entries without a "/" (php, ext-*) are
// platform requirements and are skipped. Any read or parse failure yields
// an empty set.
func LoadPrimaryDependencies(path string) DependencySet {
	m, err := Load(path)
	if err != nil {
		return NewDependencySet()
	}
	return m.PrimaryDependencies()
}

// PrimaryDependencies derives the dependency set from an already parsed manifest.
func (m *Manifest) PrimaryDependencies() DependencySet {
	var ids []string
	for _, group := range []map[string]string{m.Require, m.RequireDev} {
		for name := range group {
			if strings.Contains(name, "/") {
				ids = append(ids, Identifier(name))
			}
		}
	}
	return NewDependencySet(ids...)
}
