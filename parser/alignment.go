package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// FormatAlignment is the Alignment API XML format.
const FormatAlignment = "alignment-api-xml"

// alignmentRelations translates alignment relations into predicates.
var alignmentRelations = map[string]string{
	"=": "owl:equivalentClass",
}

// AlignmentParser reads Alignment API documents.
type AlignmentParser struct{}

// NewAlignmentParser returns an alignment parser.
func NewAlignmentParser() *AlignmentParser {
	return &AlignmentParser{}
}

// Format returns the format name the parser is registered under.
func (p *AlignmentParser) Format() string {
	return FormatAlignment
}

type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
	text     strings.Builder
}

func (e *element) value() string {
	return strings.TrimSpace(e.text.String())
}

func (e *element) attr(local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// descendants returns every element below e named name, in document order.
func (e *element) descendants(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, c.descendants(name)...)
	}
	return out
}

func readElements(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	root := &element{}
	stack := []*element{root}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return root, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{name: t.Name.Local, attrs: t.Attr}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, e)
			stack = append(stack, e)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}
}

// Parse walks every Alignment element. Each Cell under map becomes one
// mapping; onto1, onto2, uri1 and uri2 fill the set sources. An xml element
// must say "yes".
func (p *AlignmentParser) Parse(r io.Reader, opts Options) (*model.MappingSetDocument, error) {
	prefixes, err := opts.resolvePrefixes(opts.Prefixes, "parser.AlignmentParser")
	if err != nil {
		return nil, err
	}

	root, err := readElements(r)
	if err != nil {
		return nil, model.WrapFormat(err, "parser.AlignmentParser", "Parse")
	}

	set := model.NewMappingSet()
	for _, alignment := range root.descendants("Alignment") {
		for _, e := range alignment.children {
			switch e.name {
			case "map":
				for _, cell := range e.descendants("Cell") {
					m, err := p.cell(cell, prefixes, opts)
					if err != nil {
						return nil, err
					}
					add(set, m)
				}
			case "xml":
				if e.value() != "yes" {
					return nil, model.FormatError("parser.AlignmentParser", "Parse",
						"xml element is %q, only plain XML alignments are supported", e.value())
				}
			case "onto1":
				set.SubjectSourceID = ontologyRef(e)
			case "onto2":
				set.ObjectSourceID = ontologyRef(e)
			case "uri1":
				set.SubjectSource = e.value()
			case "uri2":
				set.ObjectSource = e.value()
			default:
				opts.logger().Debug("Skipping alignment element", slog.String("element", e.name))
			}
		}
	}

	return finish(set, prefixes, opts.Metadata)
}

// ontologyRef reads onto1/onto2 given either as text or as a nested
// Ontology element.
func ontologyRef(e *element) string {
	if v := e.value(); v != "" {
		return v
	}
	for _, c := range e.children {
		if c.name == "Ontology" {
			return c.attr("about")
		}
	}
	return ""
}

func (p *AlignmentParser) cell(c *element, prefixes *prefix.Map, opts Options) (model.Mapping, error) {
	var m model.Mapping
	for _, child := range c.children {
		switch child.name {
		case "entity1":
			m.SubjectID = prefix.Contract(child.attr("resource"), prefixes)
		case "entity2":
			m.ObjectID = prefix.Contract(child.attr("resource"), prefixes)
		case "measure":
			f, _ := model.MappingFields().Lookup(sssom.SlotConfidence)
			if err := f.Set(&m, child.value()); err != nil {
				return m, err
			}
		case "relation":
			rel := child.value()
			pred, ok := alignmentRelations[rel]
			if !ok {
				opts.warn(model.Warning{
					Kind:    model.WarnRelation,
					Name:    rel,
					Message: rel + " not a recognised relation type",
				})
				continue
			}
			m.PredicateID = pred
		default:
			opts.warn(model.Warning{
				Kind:    model.WarnElement,
				Name:    child.name,
				Message: "Unsupported alignment api element: " + child.name,
			})
		}
	}
	if m.SubjectID == "" || m.ObjectID == "" {
		return m, model.FormatError("parser.AlignmentParser", "Parse", "cell without entity1 and entity2 resources")
	}
	return m, nil
}
