package parser

import (
	"bufio"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/semmap/graph"
	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// Graph formats.
const (
	FormatRDF = "rdf"
	FormatOWL = "owl"
)

// GuessSerialisation maps a file extension to an RDF serialisation. owl and
// rdf files are RDF/XML; other extensions must name a serialisation. The
// graph parser still checks owl and rdf content and falls back to Turtle.
func GuessSerialisation(filename string) (graph.Serialisation, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == FormatOWL || ext == FormatRDF {
		return graph.XML, nil
	}
	if s, ok := graph.LookupSerialisation(ext); ok {
		return s, nil
	}
	return "", model.ConfigError("parser", "GuessSerialisation",
		"file extension %q does not correspond to a legal file format", ext)
}

// GraphParser reads RDF and OWL graphs holding reified mapping axioms.
type GraphParser struct {
	format string
}

// NewGraphParser returns a graph parser registered under format.
func NewGraphParser(format string) *GraphParser {
	return &GraphParser{format: format}
}

// Format returns the format name the parser is registered under.
func (p *GraphParser) Format() string {
	return p.format
}

// Parse decodes the graph, then rebuilds one mapping per owl:Axiom node from
// its annotated source, property and target plus any slot annotations. Set
// fields are read from the node typed as a mapping set or ontology.
func (p *GraphParser) Parse(r io.Reader, opts Options) (*model.MappingSetDocument, error) {
	log := opts.logger()

	prefixes, err := opts.resolvePrefixes(opts.Prefixes, "parser.GraphParser")
	if err != nil {
		return nil, err
	}

	ser, err := p.serialisation(opts)
	if err != nil {
		return nil, err
	}

	if ser == graph.XML && p.generic(opts) {
		br := bufio.NewReader(r)
		if !graph.SniffXML(br) {
			ser = graph.Turtle
		}
		r = br
	}

	g, err := graph.Decode(r, ser)
	if err != nil {
		return nil, model.WrapFormat(err, "parser.GraphParser", "Parse")
	}
	log.Debug("Decoded mapping graph", slog.String("serialisation", string(ser)), slog.Int("triples", g.Len()))

	for k, ns := range g.Bindings.All() {
		declared, ok := prefixes.Get(k)
		switch {
		case !ok:
			prefixes.Set(k, ns)
		case declared != ns:
			c := prefix.Conflict{Prefix: k, Kept: declared, Discarded: ns}
			opts.warn(model.Warning{Kind: model.WarnPrefixConflict, Name: k, Message: c.String()})
		}
	}

	ex := &extractor{g: g, prefixes: prefixes, unknown: unknownNames{}}
	set := model.NewMappingSet()
	ex.readSet(set)
	for _, axiom := range g.Subjects(graph.RDFType, graph.IRI(sssom.OwlAxiom)) {
		if m, ok := ex.readAxiom(axiom); ok {
			add(set, m)
		}
	}
	ex.unknown.report(opts)

	return finish(set, prefixes, opts.Metadata)
}

func (p *GraphParser) serialisation(opts Options) (graph.Serialisation, error) {
	if opts.Serialisation != "" {
		if opts.Serialisation == FormatOWL || opts.Serialisation == FormatRDF {
			return graph.XML, nil
		}
		s, ok := graph.LookupSerialisation(opts.Serialisation)
		if !ok {
			return "", model.ConfigError("parser.GraphParser", "Parse", "unknown RDF serialisation %q", opts.Serialisation)
		}
		return s, nil
	}
	if opts.Filename == "" {
		return "", model.ConfigError("parser.GraphParser", "Parse", "no serialisation given and no file name to guess from")
	}
	return GuessSerialisation(opts.Filename)
}

// generic reports whether the serialisation came from the owl or rdf format
// name, which covers both RDF/XML and Turtle documents.
func (p *GraphParser) generic(opts Options) bool {
	name := opts.Serialisation
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Filename)), ".")
	}
	return name == FormatOWL || name == FormatRDF
}

type extractor struct {
	g        *graph.Graph
	prefixes *prefix.Map
	unknown  unknownNames
}

// text renders a term as slot text: IRIs are contracted to CURIEs.
func (ex *extractor) text(v quad.Value) string {
	if iri, ok := v.(quad.IRI); ok {
		return prefix.Contract(string(iri), ex.prefixes)
	}
	return graph.Lexical(v)
}

func (ex *extractor) readSet(set *model.MappingSet) {
	var node quad.Value
	for _, class := range []string{sssom.ClassMappingSet, sssom.OwlOntology} {
		if nodes := ex.g.Subjects(graph.RDFType, graph.IRI(class)); len(nodes) > 0 {
			node = nodes[0]
			break
		}
	}
	if node == nil {
		return
	}
	if iri, ok := node.(quad.IRI); ok && !strings.HasPrefix(string(iri), "urn:uuid:") {
		set.MappingSetID = string(iri)
	}

	fields := model.MappingSetFields()
	for _, q := range ex.g.Match(node, nil, nil) {
		pred := graph.Lexical(q.Predicate)
		if pred == sssom.RdfType || pred == sssom.PropMappings {
			continue
		}
		slot, ok := sssom.SlotForIRI(pred)
		if !ok {
			continue
		}
		if f, ok := fields.Lookup(slot); ok && slot != sssom.SlotMappingSetID {
			_ = f.Set(set, ex.text(q.Object))
		}
	}
}

func (ex *extractor) readAxiom(axiom quad.Value) (model.Mapping, bool) {
	var m model.Mapping
	fields := model.MappingFields()
	for _, q := range ex.g.Match(axiom, nil, nil) {
		pred := graph.Lexical(q.Predicate)
		if pred == sssom.RdfType {
			continue
		}
		slot, ok := sssom.SlotForIRI(pred)
		if !ok {
			ex.unknown.add(prefix.Contract(pred, ex.prefixes))
			continue
		}
		f, ok := fields.Lookup(slot)
		if !ok {
			ex.unknown.add(slot)
			continue
		}
		if err := f.Set(&m, ex.text(q.Object)); err != nil {
			ex.unknown.add(slot)
		}
	}
	if m.SubjectID == "" || m.PredicateID == "" || m.ObjectID == "" {
		return m, false
	}
	return m, true
}
