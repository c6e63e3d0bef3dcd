// Package sssom provides vocabulary predicates for SSSOM mapping slots.
//
// Every slot of a mapping or mapping set is registered in the semstreams
// vocabulary registry under three-level dotted names:
//
//	sssom.mapping.<slot>   slots carried by a single mapping
//	sssom.set.<slot>       slots carried by a mapping set
//
// Each registration carries the slot's RDF IRI via vocabulary.WithIRI, so RDF
// writers and readers resolve slot IRIs through the registry rather than by
// string concatenation. The three identity slots map onto OWL axiom
// annotation properties (owl:annotatedSource, owl:annotatedProperty,
// owl:annotatedTarget), matching the SSSOM JSON-LD context.
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/semmap/vocabulary/sssom"
package sssom
