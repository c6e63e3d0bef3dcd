package graph

import (
	"fmt"
	"strconv"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"

	"github.com/c360studio/semmap/prefix"
)

// Well-known terms.
var (
	RDFType        = quad.IRI(rdf.Type).Full()
	RDFSSubClassOf = quad.IRI(rdfs.SubClassOf).Full()
	RDFSLabel      = quad.IRI(rdfs.Label).Full()
)

// RDFNamespace is the rdf: namespace IRI.
const RDFNamespace = rdf.NS

// IRI returns an IRI term.
func IRI(s string) quad.IRI {
	return quad.IRI(s)
}

// Blank returns a blank node term.
func Blank(id string) quad.BNode {
	return quad.BNode(id)
}

// Literal returns a plain string literal.
func Literal(s string) quad.String {
	return quad.String(s)
}

// Typed returns a literal with a datatype IRI.
func Typed(s, datatype string) quad.TypedString {
	return quad.TypedString{Value: quad.String(s), Type: quad.IRI(datatype)}
}

// Double returns an xsd:double literal.
func Double(f float64, datatype string) quad.TypedString {
	return Typed(strconv.FormatFloat(f, 'g', -1, 64), datatype)
}

// Resource returns an IRI term for a CURIE or IRI, expanding through m.
// Values that are neither come back as plain literals with ok false.
func Resource(v string, m *prefix.Map) (quad.Value, bool) {
	if prefix.IsIRI(v) {
		return quad.IRI(v), true
	}
	if iri, ok := prefix.Expand(v, m); ok {
		return quad.IRI(iri), true
	}
	return quad.String(v), false
}

// IsResource reports whether v is an IRI or a blank node.
func IsResource(v quad.Value) bool {
	switch v.(type) {
	case quad.IRI, quad.BNode:
		return true
	}
	return false
}

// Lexical returns the bare text of a term: the IRI, the blank node label or
// the literal value without quotes, datatype or language.
func Lexical(v quad.Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case quad.IRI:
		return string(t)
	case quad.BNode:
		return string(t)
	case quad.String:
		return string(t)
	case quad.TypedString:
		return string(t.Value)
	case quad.LangString:
		return string(t.Value)
	}
	return fmt.Sprint(v.Native())
}
