package export

import (
	"io"

	"github.com/c360studio/semmap/graph"
	"github.com/c360studio/semmap/model"
)

// RDFWriter reifies a document and encodes the graph.
type RDFWriter struct {
	serialisation graph.Serialisation
	profile       ProfileConfig
	reifier       *Reifier
}

// NewRDFWriter returns a writer for an RDF serialisation name. An empty or
// unsupported name falls back to the default serialisation; the latter
// raises a warning.
func NewRDFWriter(serialisation string, profile Profile, opts Options) *RDFWriter {
	ser := graph.DefaultSerialisation
	if serialisation != "" {
		s, ok := graph.LookupSerialisation(serialisation)
		if ok {
			ser = s
		} else {
			opts.warn(model.Warning{
				Kind: model.WarnSerialisation,
				Name: serialisation,
				Message: "Serialisation " + serialisation + " is not supported, using " +
					string(graph.DefaultSerialisation) + " instead",
			})
		}
	}
	return &RDFWriter{
		serialisation: ser,
		profile:       GetProfileConfig(profile),
		reifier:       NewReifier(opts.Logger),
	}
}

// Format returns the output format the writer produces.
func (rw *RDFWriter) Format() string {
	if rw.profile.ApplyOWLRules {
		return FormatOWL
	}
	return string(rw.serialisation)
}

// Serialisation returns the RDF syntax the writer encodes.
func (rw *RDFWriter) Serialisation() graph.Serialisation {
	return rw.serialisation
}

// Graph returns the graph Write would encode for doc.
func (rw *RDFWriter) Graph(doc *model.MappingSetDocument) *graph.Graph {
	g := rw.reifier.Reify(doc)
	if rw.profile.ApplyOWLRules {
		ApplyOWLRules(g)
	}
	return g
}

// Write encodes the reified graph of doc.
func (rw *RDFWriter) Write(w io.Writer, doc *model.MappingSetDocument) error {
	return graph.Encode(w, rw.Graph(doc), rw.serialisation)
}
