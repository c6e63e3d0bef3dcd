package export

import (
	"slices"

	"github.com/c360studio/semmap/graph"
)

// Output format names accepted by WriterFor besides the RDF serialisations.
const (
	FormatTSV  = "tsv"
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatRDF  = "rdf"
	FormatOWL  = "owl"
)

// FormatInfo provides metadata about an output format.
type FormatInfo struct {
	// Name is the format identifier.
	Name string

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for the canonical output formats.
var FormatRegistry = map[string]FormatInfo{
	FormatTSV: {
		Name:        FormatTSV,
		MIMEType:    "text/tab-separated-values",
		Extension:   ".tsv",
		Description: "Tab separated table with a commented YAML metadata header",
	},
	FormatCSV: {
		Name:        FormatCSV,
		MIMEType:    "text/csv",
		Extension:   ".csv",
		Description: "Comma separated table with a commented YAML metadata header",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "JSON mapping set document with the prefix map as @context",
	},
	FormatOWL: {
		Name:        FormatOWL,
		MIMEType:    "text/turtle",
		Extension:   ".owl.ttl",
		Description: "OWL ontology with one annotated axiom per mapping",
	},
	string(graph.Turtle): {
		Name:        string(graph.Turtle),
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	string(graph.NTriples): {
		Name:        string(graph.NTriples),
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	string(graph.NQuads): {
		Name:        string(graph.NQuads),
		MIMEType:    "application/n-quads",
		Extension:   ".nq",
		Description: "N-Quads - Line-based RDF format with graph labels",
	},
	string(graph.JSONLD): {
		Name:        string(graph.JSONLD),
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
	string(graph.XML): {
		Name:        string(graph.XML),
		MIMEType:    "application/rdf+xml",
		Extension:   ".rdf",
		Description: "RDF/XML",
	},
}

// GetFormatInfo returns metadata for a format name or RDF serialisation
// alias. The rdf format resolves to the default serialisation.
func GetFormatInfo(format string) (FormatInfo, bool) {
	if info, ok := FormatRegistry[format]; ok {
		return info, true
	}
	if format == FormatRDF {
		return FormatRegistry[string(graph.DefaultSerialisation)], true
	}
	if s, ok := graph.LookupSerialisation(format); ok {
		return FormatRegistry[string(s)], true
	}
	return FormatInfo{}, false
}

// Formats returns every format name WriterFor accepts, sorted.
func Formats() []string {
	names := []string{FormatTSV, FormatCSV, FormatJSON, FormatRDF, FormatOWL}
	names = append(names, graph.SerialisationNames()...)
	slices.Sort(names)
	return slices.Compact(names)
}
