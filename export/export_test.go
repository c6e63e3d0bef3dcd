package export_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/c360studio/semmap/export"
	"github.com/c360studio/semmap/graph"
	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/parser"
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

const ex = "http://example.org/"

func ptr(f float64) *float64 { return &f }

func sampleDoc() *model.MappingSetDocument {
	prefixes, _ := prefix.AddBuiltIns(prefix.NewMap("ex", ex))
	set := model.NewMappingSet()
	set.MappingSetID = ex + "set"
	set.License = "https://creativecommons.org/licenses/by/4.0/"
	set.Extra["custom_note"] = "kept"
	set.Add(model.Mapping{
		SubjectID:    "ex:1",
		SubjectLabel: "one",
		PredicateID:  "owl:equivalentClass",
		ObjectID:     "ex:2",
		MatchType:    "Lexical",
		Confidence:   ptr(0.9),
	})
	set.Add(model.Mapping{
		SubjectID:   "ex:4",
		PredicateID: "rdfs:subClassOf",
		ObjectID:    "ex:3",
		Confidence:  ptr(1),
	})
	return model.NewDocument(set, prefixes)
}

func TestWriterFor(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"tsv", export.FormatTSV},
		{"CSV", export.FormatCSV},
		{"json", export.FormatJSON},
		{"rdf", string(graph.Turtle)},
		{"owl", export.FormatOWL},
		{"nt", string(graph.NTriples)},
		{"json-ld", string(graph.JSONLD)},
		{"xml", string(graph.XML)},
	}
	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			w, err := export.WriterFor(tc.format, export.Options{})
			if err != nil {
				t.Fatalf("WriterFor(%q) failed: %v", tc.format, err)
			}
			if w.Format() != tc.want {
				t.Errorf("Format() = %q, want %q", w.Format(), tc.want)
			}
		})
	}

	if _, err := export.WriterFor("docx", export.Options{}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("WriterFor(docx) error = %v, want ErrConfiguration", err)
	}
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := export.GetFormatInfo("ttl")
	if !ok || info.Extension != ".ttl" {
		t.Errorf("GetFormatInfo(ttl) = %+v, %v", info, ok)
	}
	info, ok = export.GetFormatInfo("rdf")
	if !ok || info.Name != string(graph.DefaultSerialisation) {
		t.Errorf("GetFormatInfo(rdf) = %+v, %v", info, ok)
	}
	if _, ok := export.GetFormatInfo("docx"); ok {
		t.Error("GetFormatInfo(docx) should fail")
	}
}

func TestTableWriterRoundTrip(t *testing.T) {
	doc := sampleDoc()
	w, err := export.NewTableWriter(export.FormatTSV)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	back, err := parser.NewTableParser(parser.FormatTSV).Parse(&buf, parser.Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v\n%s", err, buf.String())
	}

	if diff := cmp.Diff(doc.MappingSet.Mappings, back.MappingSet.Mappings); diff != "" {
		t.Errorf("mappings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(doc.MappingSet.Metadata(), back.MappingSet.Metadata()); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if !doc.Prefixes.Equal(back.Prefixes) {
		t.Errorf("prefixes = %v, want %v", back.Prefixes.Keys(), doc.Prefixes.Keys())
	}
}

func TestTableRoundTripKeepsColumnSlots(t *testing.T) {
	src := "# curie_map:\n" +
		"#   ex: http://example.org/\n" +
		"# mapping_set_id: http://example.org/set\n" +
		"subject_id\tpredicate_id\tobject_id\tmapping_tool\tconfidence\n" +
		"ex:1\towl:equivalentClass\tex:2\ttoolA\t1\n" +
		"ex:3\towl:equivalentClass\tex:4\ttoolB\t0.5\n"

	doc, err := parser.NewTableParser(parser.FormatTSV).Parse(strings.NewReader(src), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if doc.MappingSet.MappingTool != "" {
		t.Errorf("mapping_tool promoted to the set: %q", doc.MappingSet.MappingTool)
	}

	w, _ := export.NewTableWriter(export.FormatTSV)
	var buf bytes.Buffer
	if err := w.Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "# mapping_tool:") {
		t.Errorf("column slot written to the header:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"subject_id\tpredicate_id\tobject_id\tmapping_tool\tconfidence",
		"ex:1\towl:equivalentClass\tex:2\ttoolA\t1",
		"ex:3\towl:equivalentClass\tex:4\ttoolB\t0.5",
	}
	if diff := cmp.Diff(want, lines[len(lines)-3:]); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestTableWriterLayout(t *testing.T) {
	w, _ := export.NewTableWriter(export.FormatTSV)
	var buf bytes.Buffer
	if err := w.Write(&buf, sampleDoc()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	if lines[0] != "# mapping_set_id: "+ex+"set" {
		t.Errorf("first header line = %q", lines[0])
	}

	var header, curieMap, custom int = -1, -1, -1
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "# curie_map:"):
			curieMap = i
		case strings.HasPrefix(line, "# custom_note:"):
			custom = i
		case strings.HasPrefix(line, "subject_id\t"):
			header = i
		}
	}
	if !(custom < curieMap && curieMap < header) {
		t.Errorf("unexpected header order: custom=%d curie_map=%d columns=%d", custom, curieMap, header)
	}

	want := "subject_id\tsubject_label\tpredicate_id\tobject_id\tmatch_type\tconfidence"
	if lines[header] != want {
		t.Errorf("column row = %q, want %q", lines[header], want)
	}
	if got := lines[len(lines)-1]; got != "ex:4\t\trdfs:subClassOf\tex:3\t\t1" {
		t.Errorf("last row = %q", got)
	}
}

func TestTableWriterCSV(t *testing.T) {
	doc := sampleDoc()
	doc.MappingSet.Mappings[0].SubjectLabel = "heart, human"

	w, _ := export.NewTableWriter(export.FormatCSV)
	var buf bytes.Buffer
	if err := w.Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `ex:1,"heart, human",owl:equivalentClass`) {
		t.Errorf("CSV output does not quote the label:\n%s", buf.String())
	}

	if _, err := export.NewTableWriter("psv"); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("NewTableWriter(psv) error = %v, want ErrConfiguration", err)
	}
}

func TestJSONWriter(t *testing.T) {
	doc := sampleDoc()
	w, err := export.NewJSONWriter(export.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"@context\": {\n    \"ex\": \"http://example.org/\"") {
		t.Errorf("unexpected JSON head:\n%s", buf.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	mappings, ok := raw["mappings"].([]any)
	if !ok || len(mappings) != 2 {
		t.Fatalf("mappings = %v", raw["mappings"])
	}
	if c := mappings[0].(map[string]any)["confidence"]; c != 0.9 {
		t.Errorf("confidence = %v (%T), want number 0.9", c, c)
	}

	back, err := parser.NewJSONParser().Parse(&buf, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(doc.MappingSet.Mappings, back.MappingSet.Mappings); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
	if back.MappingSet.Extra["custom_note"] != "kept" {
		t.Errorf("extra metadata lost: %v", back.MappingSet.Extra)
	}

	if _, err := export.NewJSONWriter("yaml"); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("NewJSONWriter(yaml) error = %v, want ErrConfiguration", err)
	}
}

func TestJSONWriterEmptySet(t *testing.T) {
	var buf bytes.Buffer
	w, _ := export.NewJSONWriter("")
	if err := w.Write(&buf, model.NewDocument(nil, prefix.NewMap("ex", ex))); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"mappings": []`) {
		t.Errorf("empty set should carry an empty mappings array:\n%s", buf.String())
	}
}

func has(g *graph.Graph, s, p, o string) bool {
	return g.Has(graph.IRI(s), graph.IRI(p), graph.IRI(o))
}

func TestReify(t *testing.T) {
	g := export.NewReifier(nil).Reify(sampleDoc())

	axioms := g.Subjects(graph.RDFType, graph.IRI(sssom.OwlAxiom))
	if len(axioms) != 2 {
		t.Fatalf("got %d axioms, want 2", len(axioms))
	}
	first := axioms[0]
	checks := map[string]string{
		sssom.OwlAnnotatedSource:   ex + "1",
		sssom.OwlAnnotatedProperty: sssom.OwlEquivalentClass,
		sssom.OwlAnnotatedTarget:   ex + "2",
	}
	for pred, want := range checks {
		if !g.Has(first, graph.IRI(pred), graph.IRI(want)) {
			t.Errorf("axiom lacks %s %s", pred, want)
		}
	}
	if !g.Has(first, graph.IRI(sssom.SlotIRI(sssom.SlotConfidence)), graph.Double(0.9, sssom.XsdDouble)) {
		t.Error("confidence is not an xsd:double annotation")
	}
	if !g.Has(first, graph.IRI(sssom.SlotIRI(sssom.SlotSubjectLabel)), graph.Literal("one")) {
		t.Error("subject_label annotation missing")
	}

	if !has(g, ex+"1", sssom.OwlEquivalentClass, ex+"2") {
		t.Error("direct triple ex:1 owl:equivalentClass ex:2 missing")
	}
	if !has(g, ex+"4", sssom.RdfsSubClassOf, ex+"3") {
		t.Error("direct triple ex:4 rdfs:subClassOf ex:3 missing")
	}

	if !has(g, ex+"set", sssom.RdfType, sssom.ClassMappingSet) {
		t.Error("mapping set node is not typed sssom:MappingSet")
	}
	if len(g.Objects(graph.IRI(ex+"set"), graph.IRI(sssom.PropMappings))) != 2 {
		t.Error("mapping set should link both axioms")
	}
	if !has(g, ex+"set", sssom.SlotIRI(sssom.SlotLicense), "https://creativecommons.org/licenses/by/4.0/") {
		t.Error("license should be an IRI annotation")
	}
}

func TestReifyMintsSetID(t *testing.T) {
	doc := sampleDoc()
	doc.MappingSet.MappingSetID = ""
	r := export.NewReifier(nil)
	r.NewSetID = func() string { return "0000" }

	g := r.Reify(doc)
	if !has(g, "urn:uuid:0000", sssom.RdfType, sssom.ClassMappingSet) {
		t.Error("set node should be minted as urn:uuid")
	}
}

func TestApplyOWLRules(t *testing.T) {
	g := export.NewReifier(nil).Reify(sampleDoc())
	export.ApplyOWLRules(g)

	if !has(g, ex+"1", sssom.RdfType, sssom.OwlClass) || !has(g, ex+"2", sssom.RdfType, sssom.OwlClass) {
		t.Error("equivalentClass ends should be owl:Class")
	}
	if has(g, ex+"4", sssom.RdfType, sssom.OwlClass) {
		t.Error("subClassOf ends should not be typed")
	}
	if !has(g, ex+"set", sssom.RdfType, sssom.OwlOntology) {
		t.Error("mapping set should be an owl:Ontology")
	}
	if has(g, ex+"set", sssom.RdfType, sssom.ClassMappingSet) {
		t.Error("sssom:MappingSet type should be removed")
	}
	if n := len(g.Match(nil, graph.IRI(sssom.PropMappings), nil)); n != 0 {
		t.Errorf("%d sssom:mappings edges left", n)
	}
	if !has(g, sssom.SlotIRI(sssom.SlotConfidence), sssom.RdfType, sssom.OwlAnnotationProperty) {
		t.Error("confidence should be an owl:AnnotationProperty")
	}
	if has(g, sssom.OwlAnnotatedSource, sssom.RdfType, sssom.OwlAnnotationProperty) {
		t.Error("owl:annotatedSource must not be declared")
	}
	if len(g.Subjects(graph.RDFType, graph.IRI(sssom.OwlAxiom))) != 2 {
		t.Error("axioms must survive the OWL rules")
	}
	if !has(g, ex+"1", sssom.OwlEquivalentClass, ex+"2") {
		t.Error("direct triple must survive the OWL rules")
	}
}

func TestApplyOWLRulesEquivalentProperty(t *testing.T) {
	g := graph.New(nil)
	g.Add(graph.IRI(ex+"p"), graph.IRI(sssom.OwlEquivalentProperty), graph.IRI(ex+"q"))
	export.ApplyOWLRules(g)

	if !has(g, ex+"p", sssom.RdfType, sssom.OwlObjectProperty) || !has(g, ex+"q", sssom.RdfType, sssom.OwlObjectProperty) {
		t.Error("equivalentProperty ends should be owl:ObjectProperty")
	}
}

func TestRDFWriterFallback(t *testing.T) {
	warnings := &model.Warnings{}
	w := export.NewRDFWriter("docx", export.ProfileRDF, export.Options{Warnings: warnings})

	if w.Serialisation() != graph.DefaultSerialisation {
		t.Errorf("Serialisation() = %s, want %s", w.Serialisation(), graph.DefaultSerialisation)
	}
	if got := warnings.Of(model.WarnSerialisation); len(got) != 1 {
		t.Errorf("got %d serialisation warnings, want 1", len(got))
	}
}

func TestRDFWriterRoundTrip(t *testing.T) {
	doc := sampleDoc()
	for _, ser := range []string{"turtle", "nt", "xml"} {
		t.Run(ser, func(t *testing.T) {
			var buf bytes.Buffer
			if err := export.NewRDFWriter(ser, export.ProfileRDF, export.Options{}).Write(&buf, doc); err != nil {
				t.Fatal(err)
			}

			back, err := parser.NewGraphParser(parser.FormatRDF).Parse(&buf, parser.Options{
				Prefixes:      prefix.NewMap("ex", ex),
				Serialisation: ser,
			})
			if err != nil {
				t.Fatalf("Parse failed: %v\n%s", err, buf.String())
			}
			if diff := cmp.Diff(doc.MappingSet.Mappings, back.MappingSet.Mappings); diff != "" {
				t.Errorf("mappings mismatch (-want +got):\n%s", diff)
			}
			if back.MappingSet.MappingSetID != ex+"set" {
				t.Errorf("mapping_set_id = %q", back.MappingSet.MappingSetID)
			}
		})
	}
}

func TestOWLWriterTurtle(t *testing.T) {
	w, err := export.WriterFor(export.FormatOWL, export.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := w.Write(&buf, sampleDoc()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"owl:Axiom", "owl:annotatedSource", "owl:Ontology", "owl:AnnotationProperty"} {
		if !strings.Contains(out, want) {
			t.Errorf("OWL output lacks %s:\n%s", want, out)
		}
	}
}
