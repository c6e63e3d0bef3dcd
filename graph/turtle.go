package graph

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/semmap/prefix"
)

var (
	localName = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_.\-]*[A-Za-z0-9_\-])?$`)
	// prefixName matches PN_PREFIX; the empty prefix is allowed.
	prefixName = regexp.MustCompile(`^([A-Za-z]([A-Za-z0-9_.\-]*[A-Za-z0-9_\-])?)?$`)
)

// turtleWriter renders a graph as Turtle, one block per subject.
type turtleWriter struct {
	w        *bufio.Writer
	bindings *prefix.Map
	used     map[string]bool
}

func encodeTurtle(w io.Writer, g *Graph) error {
	tw := &turtleWriter{
		w:        bufio.NewWriter(w),
		bindings: g.Bindings,
		used:     make(map[string]bool),
	}

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
		tw.writeSubject(&body, bySubject[k])
		body.WriteString("\n")
	}

	for p, ns := range g.Bindings.All() {
		if tw.used[p] {
			fmt.Fprintf(tw.w, "@prefix %s: <%s> .\n", p, ns)
		}
	}
	if len(tw.used) > 0 {
		tw.w.WriteString("\n")
	}
	tw.w.WriteString(body.String())
	return tw.w.Flush()
}

func (tw *turtleWriter) writeSubject(sb *strings.Builder, quads []quad.Quad) {
	sb.WriteString(tw.term(quads[0].Subject))
	sb.WriteString("\n")

	// Group objects of the same predicate, keeping first-seen order.
	var preds []quad.Value
	objects := make(map[string][]quad.Value)
	for _, q := range quads {
		k := q.Predicate.String()
		if _, ok := objects[k]; !ok {
			preds = append(preds, q.Predicate)
		}
		objects[k] = append(objects[k], q.Object)
	}

	for i, p := range preds {
		terminator := " ;"
		if i == len(preds)-1 {
			terminator = " ."
		}
		verb := tw.term(p)
		if p.String() == RDFType.String() {
			verb = "a"
		}
		objs := objects[p.String()]
		parts := make([]string, len(objs))
		for j, o := range objs {
			parts[j] = tw.term(o)
		}
		fmt.Fprintf(sb, "    %s %s%s\n", verb, strings.Join(parts, ", "), terminator)
	}
}

func (tw *turtleWriter) term(v quad.Value) string {
	switch t := v.(type) {
	case quad.IRI:
		return tw.iri(string(t))
	case quad.BNode:
		return "_:" + strings.TrimPrefix(string(t), "_:")
	case quad.String:
		return quoteLiteral(string(t))
	case quad.TypedString:
		return quoteLiteral(string(t.Value)) + "^^" + tw.iri(string(t.Type))
	case quad.LangString:
		return quoteLiteral(string(t.Value)) + "@" + t.Lang
	}
	return quoteLiteral(Lexical(v))
}

func (tw *turtleWriter) iri(iri string) string {
	curie := prefix.Contract(iri, tw.bindings)
	if curie != iri {
		p, local, _ := strings.Cut(curie, ":")
		if prefixName.MatchString(p) && (local == "" || localName.MatchString(local)) {
			tw.used[p] = true
			return curie
		}
	}
	return "<" + iri + ">"
}

func quoteLiteral(s string) string {
	return `"` + escapeString(s) + `"`
}

// escapeString escapes special characters for Turtle and N-Triples output.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
