package prefix

import (
	"fmt"
	"slices"
)

// BuiltInPrefixes are always resolvable, whatever the caller declares.
var BuiltInPrefixes = []string{"sssom", "owl", "rdf", "rdfs", "skos"}

// IsBuiltIn reports whether p is one of BuiltInPrefixes.
func IsBuiltIn(p string) bool {
	return slices.Contains(BuiltInPrefixes, p)
}

// Conflict records a prefix declared twice with different namespaces. The
// Kept value is the one that stays in the map.
type Conflict struct {
	Prefix    string
	Kept      string
	Discarded string
}

func (c Conflict) String() string {
	return fmt.Sprintf("prefix %s is declared as %s but differs from %s", c.Prefix, c.Kept, c.Discarded)
}

// BuiltInPrefixMap returns the built-in prefixes as declared by plain string
// entries of the SSSOM context.
func BuiltInPrefixMap() *Map {
	m := NewMap()
	for _, e := range SSSOMContext().Entries {
		if e.Plain && IsBuiltIn(e.Term) {
			m.Set(e.Term, e.IRI)
		}
	}
	return m
}

// DefaultPrefixMap merges the SSSOM context with the bundled external
// context. SSSOM entries win; differing external values are reported.
func DefaultPrefixMap() (*Map, []Conflict) {
	return MergeContexts(SSSOMContext(), ExternalContext())
}

// MergeContexts builds a prefix map from a primary and a secondary context.
// Primary entries always win; a secondary entry that redefines a known prefix
// with another namespace is reported, never applied.
func MergeContexts(primary, secondary *Context) (*Map, []Conflict) {
	m := primary.PrefixMap()
	var conflicts []Conflict
	for _, e := range secondary.Entries {
		if !e.Plain || !e.Declarable() {
			continue
		}
		existing, ok := m.Get(e.Term)
		if !ok {
			m.Set(e.Term, e.IRI)
			continue
		}
		if existing != e.IRI {
			conflicts = append(conflicts, Conflict{Prefix: e.Term, Kept: existing, Discarded: e.IRI})
		}
	}
	return m, conflicts
}

// AddBuiltIns makes sure every built-in prefix is declared in m.
//
// A nil or empty m yields the built-in map itself. Otherwise missing
// built-ins are appended to m in place; a built-in the caller already
// declared with another namespace keeps the caller's value and is returned
// as a Conflict. Applying it twice gives the same map.
func AddBuiltIns(m *Map) (*Map, []Conflict) {
	builtins := BuiltInPrefixMap()
	if m.Len() == 0 {
		return builtins, nil
	}

	var conflicts []Conflict
	for k, v := range builtins.All() {
		declared, ok := m.Get(k)
		switch {
		case !ok:
			m.Set(k, v)
		case declared != v:
			conflicts = append(conflicts, Conflict{Prefix: k, Kept: declared, Discarded: v})
		}
	}
	return m, conflicts
}
