package graph

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"
)

// Serialisation names an RDF syntax.
type Serialisation string

// Supported serialisations.
const (
	Turtle   Serialisation = "turtle"
	NTriples Serialisation = "nt"
	NQuads   Serialisation = "nquads"
	JSONLD   Serialisation = "json-ld"
	XML      Serialisation = "xml"
)

// DefaultSerialisation is used when none is requested or the requested one
// is unsupported.
const DefaultSerialisation = Turtle

var serialisationNames = map[string]Serialisation{
	"turtle":     Turtle,
	"ttl":        Turtle,
	"nt":         NTriples,
	"ntriples":   NTriples,
	"n-triples":  NTriples,
	"nquads":     NQuads,
	"nq":         NQuads,
	"n-quads":    NQuads,
	"json-ld":    JSONLD,
	"jsonld":     JSONLD,
	"xml":        XML,
	"pretty-xml": XML,
	"rdf/xml":    XML,
}

// ErrUnsupportedSerialisation is returned for names no codec handles.
var ErrUnsupportedSerialisation = errors.New("unsupported RDF serialisation")

// LookupSerialisation resolves a serialisation name or alias.
func LookupSerialisation(name string) (Serialisation, bool) {
	s, ok := serialisationNames[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// SerialisationNames returns every accepted name and alias.
func SerialisationNames() []string {
	out := make([]string, 0, len(serialisationNames))
	for k := range serialisationNames {
		out = append(out, k)
	}
	return out
}

// Decode reads a whole graph in the given serialisation.
func Decode(r io.Reader, s Serialisation) (*Graph, error) {
	g := New(nil)
	switch s {
	case NTriples, NQuads:
		if err := readAll(nquads.NewReader(r, true), g); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s, err)
		}
	case JSONLD:
		if err := readAll(jsonld.NewReader(r), g); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s, err)
		}
	case Turtle:
		if err := decodeTurtle(r, g); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s, err)
		}
	case XML:
		if err := decodeRDFXML(r, g); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSerialisation, s)
	}
	return g, nil
}

// Encode writes g in the given serialisation.
func Encode(w io.Writer, g *Graph, s Serialisation) error {
	switch s {
	case NTriples, NQuads:
		qw := nquads.NewWriter(w)
		for _, q := range g.Quads() {
			if err := qw.WriteQuad(q); err != nil {
				return fmt.Errorf("encode %s: %w", s, err)
			}
		}
		if err := qw.Close(); err != nil {
			return fmt.Errorf("encode %s: %w", s, err)
		}
		return nil
	case JSONLD:
		jw := jsonld.NewWriter(w)
		ctx := make(map[string]any, g.Bindings.Len())
		for k, v := range g.Bindings.All() {
			ctx[k] = v
		}
		jw.SetLdContext(ctx)
		for _, q := range g.Quads() {
			if err := jw.WriteQuad(q); err != nil {
				return fmt.Errorf("encode %s: %w", s, err)
			}
		}
		return jw.Close()
	case Turtle:
		return encodeTurtle(w, g)
	case XML:
		return encodeRDFXML(w, g)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSerialisation, s)
	}
}

func readAll(r quad.Reader, g *Graph) error {
	for {
		q, err := r.ReadQuad()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		g.AddQuad(q)
	}
}
