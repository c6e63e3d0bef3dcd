package graph

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/semmap/prefix"
)

var ncName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// rdfXMLWriter renders one rdf:Description per subject.
type rdfXMLWriter struct {
	bindings *prefix.Map
	ns       *prefix.Map
}

func encodeRDFXML(w io.Writer, g *Graph) error {
	xw := &rdfXMLWriter{bindings: g.Bindings, ns: prefix.NewMap("rdf", RDFNamespace)}

	var order []string
	bySubject := make(map[string][]quad.Quad)
	for _, q := range g.quads {
		k := q.Subject.String()
		if _, ok := bySubject[k]; !ok {
			order = append(order, k)
		}
		bySubject[k] = append(bySubject[k], q)
	}

	var body strings.Builder
	for _, k := range order {
		if err := xw.writeDescription(&body, bySubject[k]); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	bw.WriteString("<rdf:RDF")
	for p, ns := range xw.ns.All() {
		fmt.Fprintf(bw, "\n   xmlns:%s=\"%s\"", p, escapeXML(ns))
	}
	bw.WriteString(">\n")
	bw.WriteString(body.String())
	bw.WriteString("</rdf:RDF>\n")
	return bw.Flush()
}

func (xw *rdfXMLWriter) writeDescription(sb *strings.Builder, quads []quad.Quad) error {
	switch s := quads[0].Subject.(type) {
	case quad.IRI:
		fmt.Fprintf(sb, "  <rdf:Description rdf:about=\"%s\">\n", escapeXML(string(s)))
	case quad.BNode:
		fmt.Fprintf(sb, "  <rdf:Description rdf:nodeID=\"%s\">\n", escapeXML(strings.TrimPrefix(string(s), "_:")))
	default:
		return fmt.Errorf("literal subject %s cannot be written as RDF/XML", s)
	}

	for _, q := range quads {
		pred, ok := q.Predicate.(quad.IRI)
		if !ok {
			return fmt.Errorf("predicate %s is not an IRI", q.Predicate)
		}
		qname, err := xw.qname(string(pred))
		if err != nil {
			return err
		}
		switch o := q.Object.(type) {
		case quad.IRI:
			fmt.Fprintf(sb, "    <%s rdf:resource=\"%s\"/>\n", qname, escapeXML(string(o)))
		case quad.BNode:
			fmt.Fprintf(sb, "    <%s rdf:nodeID=\"%s\"/>\n", qname, escapeXML(strings.TrimPrefix(string(o), "_:")))
		case quad.TypedString:
			fmt.Fprintf(sb, "    <%s rdf:datatype=\"%s\">%s</%s>\n", qname, escapeXML(string(o.Type)), escapeXML(string(o.Value)), qname)
		case quad.LangString:
			fmt.Fprintf(sb, "    <%s xml:lang=\"%s\">%s</%s>\n", qname, escapeXML(o.Lang), escapeXML(string(o.Value)), qname)
		default:
			fmt.Fprintf(sb, "    <%s>%s</%s>\n", qname, escapeXML(Lexical(o)), qname)
		}
	}
	sb.WriteString("  </rdf:Description>\n")
	return nil
}

// qname splits a predicate IRI into a declared prefix and an XML local
// name, declaring a namespace on first use.
func (xw *rdfXMLWriter) qname(iri string) (string, error) {
	curie := prefix.Contract(iri, xw.bindings)
	if p, local, ok := strings.Cut(curie, ":"); ok && curie != iri && ncName.MatchString(p) && ncName.MatchString(local) {
		ns, _ := xw.bindings.Get(p)
		if declared, exists := xw.ns.Get(p); !exists || declared == ns {
			xw.ns.Set(p, ns)
			return p + ":" + local, nil
		}
	}

	cut := strings.LastIndexAny(iri, "#/")
	if cut < 0 || cut == len(iri)-1 || !ncName.MatchString(iri[cut+1:]) {
		return "", fmt.Errorf("predicate %s has no XML local name", iri)
	}
	ns, local := iri[:cut+1], iri[cut+1:]
	for p, declared := range xw.ns.All() {
		if declared == ns {
			return p + ":" + local, nil
		}
	}
	p := fmt.Sprintf("ns%d", xw.ns.Len())
	xw.ns.Set(p, ns)
	return p + ":" + local, nil
}

func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
