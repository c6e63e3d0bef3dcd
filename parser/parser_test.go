package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/parser"
	"github.com/c360studio/semmap/prefix"
)

const exNS = "http://example.org/"

func exPrefixes() *prefix.Map {
	return prefix.NewMap("ex", exNS)
}

const twoRowTSV = "# curie_map:\n" +
	"#   ex: http://example.org/\n" +
	"subject_id\tpredicate_id\tobject_id\n" +
	"ex:1\towl:equivalentClass\tex:2\n" +
	"ex:3\tsssom:superClassOf\tex:4\n"

func TestTableParserTwoRows(t *testing.T) {
	p := parser.NewTableParser(parser.FormatTSV)

	doc, err := p.Parse(strings.NewReader(twoRowTSV), parser.Options{Filename: "two.tsv"})
	require.NoError(t, err)

	mappings := doc.MappingSet.Mappings
	require.Len(t, mappings, 2)

	assert.Equal(t, "ex:1", mappings[0].SubjectID)
	assert.Equal(t, "owl:equivalentClass", mappings[0].PredicateID)
	assert.Equal(t, "ex:2", mappings[0].ObjectID)

	assert.Equal(t, "ex:4", mappings[1].SubjectID)
	assert.Equal(t, "rdfs:subClassOf", mappings[1].PredicateID)
	assert.Equal(t, "ex:3", mappings[1].ObjectID)

	ns, ok := doc.Prefixes.Get("ex")
	assert.True(t, ok)
	assert.Equal(t, exNS, ns)
	assert.True(t, doc.Prefixes.Has("sssom"), "built-in prefixes are added")
}

func TestTableParserSetColumns(t *testing.T) {
	header := "# curie_map:\n#   ex: http://example.org/\n" +
		"subject_id\tpredicate_id\tobject_id\tmapping_tool\tlicense\n"

	doc, err := parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(header+
		"ex:1\towl:equivalentClass\tex:2\ttoolA\thttp://example.org/lic\n"+
		"ex:3\towl:equivalentClass\tex:4\ttoolB\thttp://example.org/lic\n"), parser.Options{})
	require.NoError(t, err)
	assert.Empty(t, doc.MappingSet.MappingTool, "differing values stay per mapping")
	assert.Equal(t, "http://example.org/lic", doc.MappingSet.License, "uniform values are promoted")
	assert.Equal(t, "toolA", doc.MappingSet.Mappings[0].MappingTool)
	assert.Equal(t, "toolB", doc.MappingSet.Mappings[1].MappingTool)

	doc, err = parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(header+
		"ex:1\towl:equivalentClass\tex:2\ttoolA\t\n"+
		"ex:3\towl:equivalentClass\tex:4\ttoolA\thttp://example.org/lic\n"), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, "toolA", doc.MappingSet.MappingTool)
	assert.NotEqual(t, "http://example.org/lic", doc.MappingSet.License, "a blank cell blocks promotion")
}

func TestTableParserHeaderOverridesCallerPrefixes(t *testing.T) {
	caller := prefix.NewMap("other", "http://other.org/")
	p := parser.NewTableParser(parser.FormatTSV)

	doc, err := p.Parse(strings.NewReader(twoRowTSV), parser.Options{Prefixes: caller})
	require.NoError(t, err)

	assert.True(t, doc.Prefixes.Has("ex"))
	assert.False(t, doc.Prefixes.Has("other"))
	assert.Equal(t, 1, caller.Len(), "caller map is left untouched")
}

func TestTableParserCallerMetadataSkipsHeader(t *testing.T) {
	input := "# mapping_set_id: http://example.org/from-header\n" +
		"subject_id\tpredicate_id\tobject_id\n" +
		"ex:1\towl:equivalentClass\tex:2\n"
	meta := model.Metadata{"license": "https://creativecommons.org/licenses/by/4.0/"}

	doc, err := parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(input), parser.Options{
		Prefixes: exPrefixes(),
		Metadata: meta,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://creativecommons.org/licenses/by/4.0/", doc.MappingSet.License)
	assert.Empty(t, doc.MappingSet.MappingSetID)
}

func TestTableParserHeaderMetadata(t *testing.T) {
	input := "# curie_map:\n" +
		"#   ex: http://example.org/\n" +
		"# mapping_set_id: http://example.org/set\n" +
		"# mapping_date: 2021-03-04\n" +
		"# custom_key: kept\n" +
		"subject_id\tpredicate_id\tobject_id\tconfidence\n" +
		"ex:1\towl:equivalentClass\tex:2\t0.75\n"

	doc, err := parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(input), parser.Options{})
	require.NoError(t, err)

	set := doc.MappingSet
	assert.Equal(t, "http://example.org/set", set.MappingSetID)
	assert.Equal(t, "2021-03-04", set.MappingDate)
	assert.Equal(t, "kept", set.Extra["custom_key"])
	require.Len(t, set.Mappings, 1)
	require.NotNil(t, set.Mappings[0].Confidence)
	assert.InDelta(t, 0.75, *set.Mappings[0].Confidence, 1e-9)
}

func TestTableParserNoPrefixes(t *testing.T) {
	input := "subject_id\tpredicate_id\tobject_id\nex:1\towl:equivalentClass\tex:2\n"

	_, err := parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(input), parser.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestTableParserUnknownColumns(t *testing.T) {
	input := "subject_id\tpredicate_id\tobject_id\tbogus\n" +
		"ex:1\towl:equivalentClass\tex:2\tx\n" +
		"ex:3\towl:equivalentClass\tex:4\ty\n"
	warnings := &model.Warnings{}

	doc, err := parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(input), parser.Options{
		Prefixes: exPrefixes(),
		Warnings: warnings,
	})
	require.NoError(t, err)
	assert.Len(t, doc.MappingSet.Mappings, 2)

	got := warnings.Of(model.WarnFieldMapping)
	require.Len(t, got, 1)
	assert.Equal(t, "bogus", got[0].Name)
	assert.Equal(t, 2, got[0].Count)
}

func TestTableParserBadFloat(t *testing.T) {
	input := "subject_id\tpredicate_id\tobject_id\tconfidence\n" +
		"ex:1\towl:equivalentClass\tex:2\thigh\n"

	_, err := parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(input), parser.Options{Prefixes: exPrefixes()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrFormat))
}

func TestTableParserCSV(t *testing.T) {
	input := "subject_id,predicate_id,object_id,subject_label\n" +
		"ex:1,owl:equivalentClass,ex:2,\"heart, human\"\n"

	doc, err := parser.NewTableParser(parser.FormatCSV).Parse(strings.NewReader(input), parser.Options{Prefixes: exPrefixes()})
	require.NoError(t, err)
	require.Len(t, doc.MappingSet.Mappings, 1)
	assert.Equal(t, "heart, human", doc.MappingSet.Mappings[0].SubjectLabel)
}

func TestSeparator(t *testing.T) {
	tests := []struct {
		name          string
		serialisation string
		filename      string
		want          rune
		wantErr       bool
	}{
		{"explicit tsv", "tsv", "x.csv", '\t', false},
		{"explicit csv", "csv", "x.tsv", ',', false},
		{"from extension", "", "x.csv", ',', false},
		{"fallback", "", "x.txt", '\t', false},
		{"unknown", "psv", "x.tsv", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Separator(tt.serialisation, tt.filename, nil)
			if tt.wantErr {
				assert.True(t, errors.Is(err, model.ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadMetadata(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		meta, err := parser.ReadMetadata(strings.NewReader("subject_id\tobject_id\n"))
		require.NoError(t, err)
		assert.Empty(t, meta)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := parser.ReadMetadata(strings.NewReader("# a: [b\nsubject_id\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrFormat))
	})

	t.Run("curie map keeps order", func(t *testing.T) {
		meta, err := parser.ReadMetadata(strings.NewReader("# curie_map:\n#   z: http://z/\n#   a: http://a/\n# license: x\n"))
		require.NoError(t, err)
		m, ok := meta["curie_map"].(*prefix.Map)
		require.True(t, ok)
		assert.Equal(t, []string{"z", "a"}, m.Keys())
		assert.Equal(t, "x", meta["license"])
	})

	t.Run("stops at first data line", func(t *testing.T) {
		meta, err := parser.ReadMetadata(strings.NewReader("# license: x\nsubject_id\n# comment_after: y\n"))
		require.NoError(t, err)
		assert.NotContains(t, meta, "comment_after")
	})
}

const alignmentXML = `<?xml version="1.0" encoding="utf-8"?>
<rdf:RDF xmlns="http://knowledgeweb.semanticweb.org/heterogeneity/alignment"
         xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <Alignment>
    <xml>yes</xml>
    <level>0</level>
    <onto1><Ontology rdf:about="http://example.org/onto1"/></onto1>
    <onto2>http://example.org/onto2</onto2>
    <map>
      <Cell>
        <entity1 rdf:resource="http://example.org/1"/>
        <entity2 rdf:resource="http://example.org/2"/>
        <relation>=</relation>
        <measure rdf:datatype="http://www.w3.org/2001/XMLSchema#float">0.9</measure>
      </Cell>
    </map>
  </Alignment>
</rdf:RDF>`

func TestAlignmentParser(t *testing.T) {
	doc, err := parser.NewAlignmentParser().Parse(strings.NewReader(alignmentXML), parser.Options{Prefixes: exPrefixes()})
	require.NoError(t, err)

	require.Len(t, doc.MappingSet.Mappings, 1)
	m := doc.MappingSet.Mappings[0]
	assert.Equal(t, "ex:1", m.SubjectID)
	assert.Equal(t, "owl:equivalentClass", m.PredicateID)
	assert.Equal(t, "ex:2", m.ObjectID)
	require.NotNil(t, m.Confidence)
	assert.InDelta(t, 0.9, *m.Confidence, 1e-9)

	assert.Equal(t, "http://example.org/onto1", doc.MappingSet.SubjectSourceID)
	assert.Equal(t, "http://example.org/onto2", doc.MappingSet.ObjectSourceID)
}

func TestAlignmentParserRejectsNonXML(t *testing.T) {
	input := strings.Replace(alignmentXML, "<xml>yes</xml>", "<xml>no</xml>", 1)

	_, err := parser.NewAlignmentParser().Parse(strings.NewReader(input), parser.Options{Prefixes: exPrefixes()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrFormat))
}

func TestAlignmentParserWarnings(t *testing.T) {
	input := strings.Replace(alignmentXML, "<relation>=</relation>",
		"<relation>&lt;</relation><note>x</note>", 1)
	warnings := &model.Warnings{}

	doc, err := parser.NewAlignmentParser().Parse(strings.NewReader(input), parser.Options{
		Prefixes: exPrefixes(),
		Warnings: warnings,
	})
	require.NoError(t, err)

	require.Len(t, doc.MappingSet.Mappings, 1)
	assert.Empty(t, doc.MappingSet.Mappings[0].PredicateID)

	rel := warnings.Of(model.WarnRelation)
	require.Len(t, rel, 1)
	assert.Equal(t, "<", rel[0].Name)

	el := warnings.Of(model.WarnElement)
	require.Len(t, el, 1)
	assert.Equal(t, "note", el[0].Name)
}

func TestAlignmentParserNoPrefixes(t *testing.T) {
	_, err := parser.NewAlignmentParser().Parse(strings.NewReader(alignmentXML), parser.Options{})
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

const reifiedTurtle = `@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix sssom: <http://w3id.org/sssom/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:set a sssom:MappingSet ;
    sssom:license "https://w3id.org/sssom/license/unspecified" .

ex:1 owl:equivalentClass ex:2 .

[] a owl:Axiom ;
    owl:annotatedSource ex:1 ;
    owl:annotatedProperty owl:equivalentClass ;
    owl:annotatedTarget ex:2 ;
    sssom:confidence "0.8"^^xsd:double ;
    sssom:subject_label "one" ;
    ex:unrelated "ignored" .
`

func TestGraphParserTurtle(t *testing.T) {
	warnings := &model.Warnings{}
	doc, err := parser.NewGraphParser(parser.FormatRDF).Parse(strings.NewReader(reifiedTurtle), parser.Options{
		Prefixes: exPrefixes(),
		Filename: "mappings.ttl",
		Warnings: warnings,
	})
	require.NoError(t, err)

	set := doc.MappingSet
	assert.Equal(t, "http://example.org/set", set.MappingSetID)
	assert.Equal(t, "https://w3id.org/sssom/license/unspecified", set.License)

	require.Len(t, set.Mappings, 1)
	m := set.Mappings[0]
	assert.Equal(t, "ex:1", m.SubjectID)
	assert.Equal(t, "owl:equivalentClass", m.PredicateID)
	assert.Equal(t, "ex:2", m.ObjectID)
	assert.Equal(t, "one", m.SubjectLabel)
	require.NotNil(t, m.Confidence)
	assert.InDelta(t, 0.8, *m.Confidence, 1e-9)

	unknown := warnings.Of(model.WarnFieldMapping)
	require.Len(t, unknown, 1)
	assert.Equal(t, "ex:unrelated", unknown[0].Name)

	assert.True(t, doc.Prefixes.Has("xsd"), "graph bindings are merged")
}

func TestGraphParserOWLFileWithTurtleContent(t *testing.T) {
	for _, opts := range []parser.Options{
		{Prefixes: exPrefixes(), Filename: "mappings.owl"},
		{Prefixes: exPrefixes(), Serialisation: parser.FormatRDF},
	} {
		doc, err := parser.NewGraphParser(parser.FormatOWL).Parse(strings.NewReader(reifiedTurtle), opts)
		require.NoError(t, err)
		require.Len(t, doc.MappingSet.Mappings, 1)
		assert.Equal(t, "ex:1", doc.MappingSet.Mappings[0].SubjectID)
	}
}

func TestGraphParserNeedsSerialisation(t *testing.T) {
	_, err := parser.NewGraphParser(parser.FormatRDF).Parse(strings.NewReader(reifiedTurtle), parser.Options{
		Prefixes: exPrefixes(),
		Filename: "mappings.unknown",
	})
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestGuessSerialisation(t *testing.T) {
	for name, want := range map[string]string{
		"a.owl":    "xml",
		"a.rdf":    "xml",
		"a.ttl":    "turtle",
		"a.nt":     "nt",
		"a.jsonld": "json-ld",
	} {
		got, err := parser.GuessSerialisation(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, string(got), name)
	}
	_, err := parser.GuessSerialisation("a.docx")
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

const mappingJSON = `{
  "@context": {"ex": "http://example.org/"},
  "@type": "MappingSet",
  "mapping_set_id": "http://example.org/set",
  "license": "https://w3id.org/sssom/license/unspecified",
  "custom_key": "kept",
  "mappings": [
    {"@type": "Mapping", "subject_id": "ex:3", "predicate_id": "sssom:superClassOf", "object_id": "ex:4", "confidence": 0.5, "bogus": 1}
  ]
}`

func TestJSONParser(t *testing.T) {
	warnings := &model.Warnings{}
	doc, err := parser.NewJSONParser().Parse(strings.NewReader(mappingJSON), parser.Options{Warnings: warnings})
	require.NoError(t, err)

	set := doc.MappingSet
	assert.Equal(t, "http://example.org/set", set.MappingSetID)
	assert.Equal(t, "kept", set.Extra["custom_key"])
	require.Len(t, set.Mappings, 1)

	m := set.Mappings[0]
	assert.Equal(t, "ex:4", m.SubjectID)
	assert.Equal(t, "rdfs:subClassOf", m.PredicateID)
	assert.Equal(t, "ex:3", m.ObjectID)
	require.NotNil(t, m.Confidence)
	assert.InDelta(t, 0.5, *m.Confidence, 1e-9)

	assert.True(t, doc.Prefixes.Has("ex"))
	assert.Len(t, warnings.Of(model.WarnFieldMapping), 1)
}

func TestJSONParserMalformed(t *testing.T) {
	_, err := parser.NewJSONParser().Parse(strings.NewReader("{"), parser.Options{Prefixes: exPrefixes()})
	assert.True(t, errors.Is(err, model.ErrFormat))
}

func TestFormatFromExtension(t *testing.T) {
	tests := map[string]string{
		"a.tsv":    parser.FormatTSV,
		"a.CSV":    parser.FormatCSV,
		"a.json":   parser.FormatJSON,
		"a.owl":    parser.FormatOWL,
		"a.rdf":    parser.FormatRDF,
		"a.ttl":    parser.FormatRDF,
		"a.jsonld": parser.FormatRDF,
		"a.xml":    parser.FormatAlignment,
	}
	for name, want := range tests {
		got, ok := parser.FormatFromExtension(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := parser.FormatFromExtension("a.docx")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	r := parser.NewRegistry()

	assert.Equal(t, []string{"alignment-api-xml", "csv", "json", "owl", "rdf", "tsv"}, r.Formats())

	p, err := r.Get("TSV")
	require.NoError(t, err)
	assert.Equal(t, parser.FormatTSV, p.Format())

	_, err = r.Get("docx")
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestRegistryParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.tsv")
	require.NoError(t, os.WriteFile(path, []byte(twoRowTSV), 0o644))

	doc, err := parser.DefaultRegistry.ParseFile(path, "", parser.Options{})
	require.NoError(t, err)
	assert.Len(t, doc.MappingSet.Mappings, 2)

	_, err = parser.DefaultRegistry.ParseFile(filepath.Join(t.TempDir(), "x.docx"), "", parser.Options{})
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}
