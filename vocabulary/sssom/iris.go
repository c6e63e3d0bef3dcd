package sssom

import "github.com/c360studio/semstreams/vocabulary"

// Namespace is the base IRI for SSSOM vocabulary terms.
const Namespace = "http://w3id.org/sssom/"

// Class and structural property IRIs.
const (
	// ClassMappingSet types a mapping set node.
	ClassMappingSet = Namespace + "MappingSet"

	// ClassMapping types a single mapping node.
	ClassMapping = Namespace + "Mapping"

	// PropMappings links a mapping set to its mappings.
	PropMappings = Namespace + "mappings"

	// PropSuperClassOf is the inverse of rdfs:subClassOf.
	PropSuperClassOf = Namespace + "superClassOf"
)

// Standard namespaces.
const (
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// OWL IRIs used by axiom reification.
const (
	OwlAxiom              = OWLNamespace + "Axiom"
	OwlAnnotatedSource    = OWLNamespace + "annotatedSource"
	OwlAnnotatedProperty  = OWLNamespace + "annotatedProperty"
	OwlAnnotatedTarget    = OWLNamespace + "annotatedTarget"
	OwlClass              = OWLNamespace + "Class"
	OwlObjectProperty     = OWLNamespace + "ObjectProperty"
	OwlAnnotationProperty = OWLNamespace + "AnnotationProperty"
	OwlOntology           = OWLNamespace + "Ontology"

	OwlEquivalentClass    = vocabulary.OwlEquivalentClass
	OwlEquivalentProperty = vocabulary.OwlEquivalentProperty
)

// RDF, RDFS and XSD IRIs.
const (
	RdfType        = RDFNamespace + "type"
	RdfsSubClassOf = RDFSNamespace + "subClassOf"
	RdfsLabel      = vocabulary.RdfsLabel
	XsdDouble      = XSDNamespace + "double"
	XsdString      = XSDNamespace + "string"
)
