package graph_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semmap/graph"
	"github.com/c360studio/semmap/prefix"
)

const (
	ex   = "http://example.org/"
	owlE = "http://www.w3.org/2002/07/owl#equivalentClass"
	xsdD = "http://www.w3.org/2001/XMLSchema#double"
)

func sample() *graph.Graph {
	g := graph.New(prefix.NewMap("ex", ex, "owl", "http://www.w3.org/2002/07/owl#", "rdf", graph.RDFNamespace))
	g.Add(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI(ex+"2"))
	g.Add(graph.Blank("m1"), graph.RDFType, graph.IRI("http://www.w3.org/2002/07/owl#Axiom"))
	g.Add(graph.Blank("m1"), graph.IRI(ex+"confidence"), graph.Double(0.9, xsdD))
	g.Add(graph.Blank("m1"), graph.RDFSLabel, graph.Literal("a \"quoted\"\nlabel"))
	return g
}

func TestGraphAddDedupes(t *testing.T) {
	g := graph.New(nil)

	assert.True(t, g.Add(graph.IRI(ex+"a"), graph.RDFType, graph.IRI(ex+"T")))
	assert.False(t, g.Add(graph.IRI(ex+"a"), graph.RDFType, graph.IRI(ex+"T")))
	assert.Equal(t, 1, g.Len())
}

func TestGraphMatchAndRemove(t *testing.T) {
	g := sample()

	assert.Len(t, g.Match(graph.Blank("m1"), nil, nil), 3)
	assert.Len(t, g.Match(nil, graph.RDFType, nil), 1)
	assert.Equal(t, []quad.Value{graph.Blank("m1")}, g.Subjects(graph.RDFType, nil))
	assert.Equal(t, []quad.Value{graph.IRI(ex + "2")}, g.Objects(graph.IRI(ex+"1"), graph.IRI(owlE)))

	assert.True(t, g.Remove(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI(ex+"2")))
	assert.False(t, g.Has(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI(ex+"2")))
	assert.False(t, g.Remove(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI(ex+"2")))

	assert.Equal(t, 3, g.RemoveMatching(graph.Blank("m1"), nil, nil))
	assert.Equal(t, 0, g.Len())
}

func TestLookupSerialisation(t *testing.T) {
	tests := map[string]graph.Serialisation{
		"ttl":        graph.Turtle,
		"Turtle":     graph.Turtle,
		"nt":         graph.NTriples,
		"nq":         graph.NQuads,
		"jsonld":     graph.JSONLD,
		"pretty-xml": graph.XML,
	}
	for name, want := range tests {
		got, ok := graph.LookupSerialisation(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := graph.LookupSerialisation("trix")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []graph.Serialisation{graph.Turtle, graph.NTriples, graph.XML} {
		t.Run(string(s), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, graph.Encode(&buf, sample(), s))

			back, err := graph.Decode(&buf, s)
			require.NoError(t, err)

			assert.Equal(t, 4, back.Len())
			assert.True(t, back.Has(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI(ex+"2")))

			axioms := back.Subjects(graph.RDFType, graph.IRI("http://www.w3.org/2002/07/owl#Axiom"))
			require.Len(t, axioms, 1)
			conf := back.Objects(axioms[0], graph.IRI(ex+"confidence"))
			require.Len(t, conf, 1)
			assert.Equal(t, "0.9", graph.Lexical(conf[0]))
			labels := back.Objects(axioms[0], graph.RDFSLabel)
			require.Len(t, labels, 1)
			assert.Equal(t, "a \"quoted\"\nlabel", graph.Lexical(labels[0]))
		})
	}
}

func TestEncodeTurtleUsesPrefixes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, graph.Encode(&buf, sample(), graph.Turtle))
	out := buf.String()

	assert.Contains(t, out, "@prefix ex: <http://example.org/> .")
	assert.Contains(t, out, "ex:1\n    owl:equivalentClass ex:2 .")
	assert.Contains(t, out, "_:m1\n    a owl:Axiom ;")
	assert.Contains(t, out, `"0.9"^^<http://www.w3.org/2001/XMLSchema#double>`)
}

func TestDecodeTurtle(t *testing.T) {
	src := `@prefix ex: <http://example.org/> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .

# comment
ex:a skos:exactMatch ex:b , <http://other.org/rel> ;
    a ex:Thing ;
    ex:score "1.5"^^<http://www.w3.org/2001/XMLSchema#double> ;
    ex:count 3 ;
    ex:name "A"@en, "two\nlines" ;
    ex:node [ ex:p ex:q ] .
`
	g, err := graph.Decode(strings.NewReader(src), graph.Turtle)
	require.NoError(t, err)

	a := graph.IRI(ex + "a")
	assert.True(t, g.Has(a, graph.IRI("http://www.w3.org/2004/02/skos/core#exactMatch"), graph.IRI(ex+"b")))
	assert.True(t, g.Has(a, graph.IRI("http://www.w3.org/2004/02/skos/core#exactMatch"), graph.IRI("http://other.org/rel")))
	assert.True(t, g.Has(a, graph.RDFType, graph.IRI(ex+"Thing")))
	assert.True(t, g.Has(a, graph.IRI(ex+"score"), graph.Typed("1.5", xsdD)))
	assert.True(t, g.Has(a, graph.IRI(ex+"count"), graph.Typed("3", "http://www.w3.org/2001/XMLSchema#integer")))
	assert.True(t, g.Has(a, graph.IRI(ex+"name"), quad.LangString{Value: "A", Lang: "en"}))
	assert.True(t, g.Has(a, graph.IRI(ex+"name"), graph.Literal("two\nlines")))

	nodes := g.Objects(a, graph.IRI(ex+"node"))
	require.Len(t, nodes, 1)
	assert.True(t, graph.IsResource(nodes[0]))
	assert.True(t, g.Has(nodes[0], graph.IRI(ex+"p"), graph.IRI(ex+"q")))

	assert.Equal(t, []string{"ex", "skos"}, g.Bindings.Keys())
	ns, ok := g.Bindings.Get("skos")
	assert.True(t, ok)
	assert.Equal(t, "http://www.w3.org/2004/02/skos/core#", ns)
}

func TestDecodeTurtleErrors(t *testing.T) {
	for name, src := range map[string]string{
		"undeclared prefix": "ex:a ex:b ex:c .",
		"open string":       `<http://a> <http://b> "oops .`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := graph.Decode(strings.NewReader(src), graph.Turtle)
			assert.Error(t, err)
		})
	}
}

func TestEncodeNTriples(t *testing.T) {
	g := graph.New(nil)
	g.Add(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI(ex+"2"))
	g.Add(graph.IRI(ex+"1"), graph.RDFSLabel, graph.Literal("one"))

	for _, s := range []graph.Serialisation{graph.NTriples, graph.NQuads} {
		t.Run(string(s), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, graph.Encode(&buf, g, s))
			assert.Contains(t, buf.String(), "<http://example.org/1> <http://www.w3.org/2002/07/owl#equivalentClass> <http://example.org/2> .")

			back, err := graph.Decode(&buf, s)
			require.NoError(t, err)
			assert.Equal(t, 2, back.Len())
			assert.True(t, back.Has(graph.IRI(ex+"1"), graph.RDFSLabel, graph.Literal("one")))
		})
	}
}

func TestEncodeTurtleSkipsInvalidPrefixNames(t *testing.T) {
	g := graph.New(prefix.NewMap("1bad", ex, "owl.", "http://www.w3.org/2002/07/owl#", "", "http://default.org/"))
	g.Add(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI("http://default.org/x"))

	var buf bytes.Buffer
	require.NoError(t, graph.Encode(&buf, g, graph.Turtle))
	out := buf.String()

	assert.NotContains(t, out, "@prefix 1bad:")
	assert.NotContains(t, out, "@prefix owl.:")
	assert.Contains(t, out, "@prefix : <http://default.org/> .")
	assert.Contains(t, out, "<http://example.org/1>\n    <http://www.w3.org/2002/07/owl#equivalentClass> :x .")

	back, err := graph.Decode(&buf, graph.Turtle)
	require.NoError(t, err)
	assert.True(t, back.Has(graph.IRI(ex+"1"), graph.IRI(owlE), graph.IRI("http://default.org/x")))
}

func TestSniffXML(t *testing.T) {
	tests := map[string]bool{
		"<?xml version=\"1.0\"?><rdf:RDF/>":              true,
		"\n  <rdf:RDF xmlns:rdf=\"x\">":                  true,
		"\xef\xbb\xbf<!-- comment -->":                   true,
		"@prefix ex: <http://example.org/> .":            false,
		"<http://example.org/a> <http://b> <http://c> .": false,
		"":                                               false,
	}
	for src, want := range tests {
		assert.Equal(t, want, graph.SniffXML(bufio.NewReader(strings.NewReader(src))), "%q", src)
	}
}

func TestDecodeRDFXML(t *testing.T) {
	src := `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:owl="http://www.w3.org/2002/07/owl#"
         xmlns:ex="http://example.org/">
  <owl:Class rdf:about="http://example.org/1">
    <owl:equivalentClass rdf:resource="http://example.org/2"/>
    <ex:label xml:lang="en">One</ex:label>
    <ex:part>
      <rdf:Description rdf:about="http://example.org/3" ex:name="three"/>
    </ex:part>
  </owl:Class>
</rdf:RDF>`

	g, err := graph.Decode(strings.NewReader(src), graph.XML)
	require.NoError(t, err)

	one := graph.IRI(ex + "1")
	assert.True(t, g.Has(one, graph.RDFType, graph.IRI("http://www.w3.org/2002/07/owl#Class")))
	assert.True(t, g.Has(one, graph.IRI(owlE), graph.IRI(ex+"2")))
	assert.True(t, g.Has(one, graph.IRI(ex+"label"), quad.LangString{Value: "One", Lang: "en"}))
	assert.True(t, g.Has(one, graph.IRI(ex+"part"), graph.IRI(ex+"3")))
	assert.True(t, g.Has(graph.IRI(ex+"3"), graph.IRI(ex+"name"), graph.Literal("three")))
	assert.True(t, g.Bindings.Has("owl"))
}

func TestEncodeJSONLD(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, graph.Encode(&buf, sample(), graph.JSONLD))
	assert.Contains(t, buf.String(), "@context")
}

func TestUnsupportedSerialisation(t *testing.T) {
	_, err := graph.Decode(strings.NewReader(""), graph.Serialisation("trix"))
	assert.ErrorIs(t, err, graph.ErrUnsupportedSerialisation)
	assert.ErrorIs(t, graph.Encode(&bytes.Buffer{}, sample(), "trix"), graph.ErrUnsupportedSerialisation)
}

func TestResource(t *testing.T) {
	m := prefix.NewMap("ex", ex)

	v, ok := graph.Resource("ex:1", m)
	assert.True(t, ok)
	assert.Equal(t, graph.IRI(ex+"1"), v)

	v, ok = graph.Resource("http://other.org/x", m)
	assert.True(t, ok)
	assert.Equal(t, graph.IRI("http://other.org/x"), v)

	v, ok = graph.Resource("plain text", m)
	assert.False(t, ok)
	assert.Equal(t, graph.Literal("plain text"), v)
}
