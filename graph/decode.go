package graph

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/knakk/rdf"

	"github.com/c360studio/semmap/prefix"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

var xmlStart = regexp.MustCompile(`^<([?!]|[A-Za-z_][A-Za-z0-9_.\-]*(:[A-Za-z_][A-Za-z0-9_.\-]*)?[\s/>])`)

var turtlePrefix = regexp.MustCompile(`(?mi)^\s*@?prefix\s+([A-Za-z][A-Za-z0-9_.\-]*)?:\s*<([^>]*)>`)

// decodeTriples reads every triple of a Turtle or RDF/XML document into g.
func decodeTriples(data []byte, format rdf.Format, g *Graph) error {
	dec := rdf.NewTripleDecoder(bytes.NewReader(data), format)
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		g.Add(fromTerm(t.Subj), fromTerm(t.Pred), fromTerm(t.Obj))
	}
}

func decodeTurtle(r io.Reader, g *Graph) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	g.Bindings = turtleBindings(data)
	return decodeTriples(data, rdf.Turtle, g)
}

func decodeRDFXML(r io.Reader, g *Graph) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	bindings, err := xmlBindings(data)
	if err != nil {
		return err
	}
	g.Bindings = bindings
	return decodeTriples(data, rdf.RDFXML, g)
}

// turtleBindings collects @prefix and PREFIX declarations in document order.
func turtleBindings(data []byte) *prefix.Map {
	m := prefix.NewMap()
	for _, sub := range turtlePrefix.FindAllSubmatch(data, -1) {
		m.Set(string(sub[1]), string(sub[2]))
	}
	return m
}

// xmlBindings returns the namespaces declared on the document element.
func xmlBindings(data []byte) (*prefix.Map, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	declared := make(map[string]string)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty XML document")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			for _, a := range start.Attr {
				if a.Name.Space == "xmlns" {
					declared[a.Name.Local] = a.Value
				}
			}
			return prefix.FromStringMap(declared), nil
		}
	}
}

func fromTerm(t rdf.Term) quad.Value {
	switch v := t.(type) {
	case rdf.IRI:
		return quad.IRI(v.String())
	case rdf.Blank:
		return quad.BNode(strings.TrimPrefix(v.String(), "_:"))
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return quad.LangString{Value: quad.String(v.String()), Lang: lang}
		}
		if dt := v.DataType.String(); dt != "" && dt != xsdString {
			return quad.TypedString{Value: quad.String(v.String()), Type: quad.IRI(dt)}
		}
		return quad.String(v.String())
	}
	return quad.String(t.String())
}

// SniffXML reports whether the buffered input starts with an XML document
// rather than Turtle, ignoring leading whitespace and a byte order mark.
func SniffXML(r *bufio.Reader) bool {
	head, _ := r.Peek(r.Size())
	head = bytes.TrimLeft(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")), " \t\r\n")
	return xmlStart.Match(head)
}
