package export

import (
	"fmt"
	"log/slog"

	"github.com/cayleygraph/quad"
	"github.com/google/uuid"

	"github.com/c360studio/semmap/graph"
	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// Reifier materialises a mapping set document as an RDF graph. The set
// becomes a node typed sssom:MappingSet and every mapping an owl:Axiom
// annotated with its source, property and target, next to the direct
// subject predicate object triple.
type Reifier struct {
	// Logger is optional.
	Logger *slog.Logger

	// NewSetID mints the set IRI when the set carries no mapping_set_id.
	NewSetID func() string
}

// NewReifier returns a reifier minting urn:uuid set identifiers.
func NewReifier(logger *slog.Logger) *Reifier {
	return &Reifier{
		Logger:   logger,
		NewSetID: func() string { return uuid.NewString() },
	}
}

func (r *Reifier) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Reify builds a new graph for doc. The graph owns a copy of the prefix map
// with xsd bound for typed literals.
func (r *Reifier) Reify(doc *model.MappingSetDocument) *graph.Graph {
	bindings := doc.Prefixes.Clone()
	if !bindings.Has("xsd") {
		bindings.Set("xsd", sssom.XSDNamespace)
	}
	g := graph.New(bindings)
	set := doc.MappingSet

	node := r.setNode(set, bindings)
	g.Add(node, graph.RDFType, graph.IRI(sssom.ClassMappingSet))
	for _, f := range model.MappingSetFields().All() {
		if f.Name == sssom.SlotMappingSetID {
			continue
		}
		if v, ok := f.Get(set); ok {
			g.Add(node, graph.IRI(sssom.SlotIRI(f.Name)), slotValue(v, f.Kind, bindings))
		}
	}

	for i := range set.Mappings {
		m := &set.Mappings[i]
		axiom := graph.Blank(fmt.Sprintf("m%d", i+1))
		g.Add(node, graph.IRI(sssom.PropMappings), axiom)
		g.Add(axiom, graph.RDFType, graph.IRI(sssom.OwlAxiom))
		for _, f := range model.MappingFields().All() {
			pred := graph.IRI(sssom.SlotIRI(f.Name))
			if f.Kind == model.KindFloat {
				if x, ok := f.Float(m); ok {
					g.Add(axiom, pred, graph.Double(x, sssom.XsdDouble))
				}
				continue
			}
			if v, ok := f.Get(m); ok {
				g.Add(axiom, pred, slotValue(v, f.Kind, bindings))
			}
		}
		r.directTriple(g, m, bindings)
	}

	r.logger().Debug("Reified mapping set",
		slog.Int("mappings", len(set.Mappings)),
		slog.Int("triples", g.Len()))
	return g
}

func (r *Reifier) setNode(set *model.MappingSet, bindings *prefix.Map) quad.Value {
	if set.MappingSetID != "" {
		if v, ok := graph.Resource(set.MappingSetID, bindings); ok {
			return v
		}
		return graph.IRI(set.MappingSetID)
	}
	return graph.IRI("urn:uuid:" + r.NewSetID())
}

// directTriple asserts subject predicate object. Ids that resolve to no IRI
// leave the axiom without its direct triple.
func (r *Reifier) directTriple(g *graph.Graph, m *model.Mapping, bindings *prefix.Map) {
	s, sok := graph.Resource(m.SubjectID, bindings)
	p, pok := graph.Resource(m.PredicateID, bindings)
	o, ook := graph.Resource(m.ObjectID, bindings)
	if !sok || !pok || !ook {
		r.logger().Warn("Mapping ids do not resolve to IRIs, direct triple skipped",
			slog.String("subject_id", m.SubjectID),
			slog.String("predicate_id", m.PredicateID),
			slog.String("object_id", m.ObjectID))
		return
	}
	g.Add(s, p, o)
}

func slotValue(v string, kind model.FieldKind, bindings *prefix.Map) quad.Value {
	if kind == model.KindEntity {
		if iri, ok := graph.Resource(v, bindings); ok {
			return iri
		}
	}
	return graph.Literal(v)
}

// ApplyOWLRules rewrites a reified graph into an OWL ontology, in order:
// ends of owl:equivalentClass are typed owl:Class, ends of
// owl:equivalentProperty owl:ObjectProperty, the mapping set node is retyped
// owl:Ontology, sssom:mappings edges are dropped and every annotation used
// on an axiom is declared an owl:AnnotationProperty.
func ApplyOWLRules(g *graph.Graph) {
	typeEnds(g, sssom.OwlEquivalentClass, sssom.OwlClass)
	typeEnds(g, sssom.OwlEquivalentProperty, sssom.OwlObjectProperty)
	retypeMappingSets(g)
	g.RemoveMatching(nil, graph.IRI(sssom.PropMappings), nil)
	declareAnnotationProperties(g)
}

func typeEnds(g *graph.Graph, predicate, class string) {
	for _, q := range g.Match(nil, graph.IRI(predicate), nil) {
		g.Add(q.Subject, graph.RDFType, graph.IRI(class))
		if graph.IsResource(q.Object) {
			g.Add(q.Object, graph.RDFType, graph.IRI(class))
		}
	}
}

func retypeMappingSets(g *graph.Graph) {
	for _, node := range g.Subjects(graph.RDFType, graph.IRI(sssom.ClassMappingSet)) {
		g.Remove(node, graph.RDFType, graph.IRI(sssom.ClassMappingSet))
		g.Add(node, graph.RDFType, graph.IRI(sssom.OwlOntology))
	}
}

var axiomStructure = map[string]bool{
	sssom.RdfType:              true,
	sssom.OwlAnnotatedSource:   true,
	sssom.OwlAnnotatedProperty: true,
	sssom.OwlAnnotatedTarget:   true,
}

func declareAnnotationProperties(g *graph.Graph) {
	for _, axiom := range g.Subjects(graph.RDFType, graph.IRI(sssom.OwlAxiom)) {
		for _, q := range g.Match(axiom, nil, nil) {
			if axiomStructure[graph.Lexical(q.Predicate)] {
				continue
			}
			g.Add(q.Predicate, graph.RDFType, graph.IRI(sssom.OwlAnnotationProperty))
		}
	}
}
