// Package graph is a small in-memory triple store over cayley quad terms,
// with codecs for the RDF serialisations the converter reads and writes.
package graph

import (
	"github.com/cayleygraph/quad"

	"github.com/c360studio/semmap/prefix"
)

type tripleKey struct {
	s, p, o string
}

func keyOf(q quad.Quad) tripleKey {
	return tripleKey{s: q.Subject.String(), p: q.Predicate.String(), o: q.Object.String()}
}

// Graph is an insertion-ordered set of triples. Quad labels are dropped on
// insert. A Graph is not safe for concurrent use.
type Graph struct {
	quads []quad.Quad
	seen  map[tripleKey]struct{}

	// Bindings are the prefixes encoders use to shorten IRIs.
	Bindings *prefix.Map
}

// New returns an empty graph bound to the given prefixes.
func New(bindings *prefix.Map) *Graph {
	if bindings == nil {
		bindings = prefix.NewMap()
	}
	return &Graph{
		seen:     make(map[tripleKey]struct{}),
		Bindings: bindings,
	}
}

// Add inserts a triple. It reports false if the triple was already present.
func (g *Graph) Add(s, p, o quad.Value) bool {
	return g.AddQuad(quad.Quad{Subject: s, Predicate: p, Object: o})
}

// AddQuad inserts the triple part of q.
func (g *Graph) AddQuad(q quad.Quad) bool {
	q.Label = nil
	k := keyOf(q)
	if _, ok := g.seen[k]; ok {
		return false
	}
	g.seen[k] = struct{}{}
	g.quads = append(g.quads, q)
	return true
}

// Remove deletes a triple. It reports whether the triple was present.
func (g *Graph) Remove(s, p, o quad.Value) bool {
	k := keyOf(quad.Quad{Subject: s, Predicate: p, Object: o})
	if _, ok := g.seen[k]; !ok {
		return false
	}
	delete(g.seen, k)
	for i, q := range g.quads {
		if keyOf(q) == k {
			g.quads = append(g.quads[:i], g.quads[i+1:]...)
			break
		}
	}
	return true
}

// RemoveMatching deletes every triple matching the pattern and returns how
// many were removed.
func (g *Graph) RemoveMatching(s, p, o quad.Value) int {
	kept := g.quads[:0]
	n := 0
	for _, q := range g.quads {
		if matches(q, s, p, o) {
			delete(g.seen, keyOf(q))
			n++
			continue
		}
		kept = append(kept, q)
	}
	g.quads = kept
	return n
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(s, p, o quad.Value) bool {
	_, ok := g.seen[keyOf(quad.Quad{Subject: s, Predicate: p, Object: o})]
	return ok
}

// Match returns the triples matching a pattern. A nil term is a wildcard.
// The result is a copy and may be used while the graph is modified.
func (g *Graph) Match(s, p, o quad.Value) []quad.Quad {
	var out []quad.Quad
	for _, q := range g.quads {
		if matches(q, s, p, o) {
			out = append(out, q)
		}
	}
	return out
}

// Objects returns the objects of every triple with subject s and
// predicate p.
func (g *Graph) Objects(s, p quad.Value) []quad.Value {
	var out []quad.Value
	for _, q := range g.Match(s, p, nil) {
		out = append(out, q.Object)
	}
	return out
}

// Subjects returns the distinct subjects of triples with predicate p and
// object o.
func (g *Graph) Subjects(p, o quad.Value) []quad.Value {
	var out []quad.Value
	seen := make(map[string]struct{})
	for _, q := range g.Match(nil, p, o) {
		k := q.Subject.String()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, q.Subject)
	}
	return out
}

// Quads returns a copy of every triple in insertion order.
func (g *Graph) Quads() []quad.Quad {
	out := make([]quad.Quad, len(g.quads))
	copy(out, g.quads)
	return out
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.quads)
}

func matches(q quad.Quad, s, p, o quad.Value) bool {
	return termMatches(q.Subject, s) && termMatches(q.Predicate, p) && termMatches(q.Object, o)
}

func termMatches(have, want quad.Value) bool {
	if want == nil {
		return true
	}
	return have != nil && have.String() == want.String()
}
