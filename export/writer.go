// Package export writes mapping set documents as tables, JSON documents and
// reified RDF or OWL graphs.
package export

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/c360studio/semmap/graph"
	"github.com/c360studio/semmap/model"
)

// Writer serialises a mapping set document. Writers never retain doc.
type Writer interface {
	Write(w io.Writer, doc *model.MappingSetDocument) error

	// Format returns the output format the writer produces.
	Format() string
}

// Options carries the caller context of a write.
type Options struct {
	Logger   *slog.Logger
	Warnings *model.Warnings
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) warn(w model.Warning) {
	model.Report(o.logger(), o.Warnings, w)
}

// WriterFor selects the writer for an output format name: tsv and csv
// tables, json, any RDF serialisation name, rdf for the default
// serialisation and owl for an OWL ontology in the default serialisation.
func WriterFor(format string, opts Options) (Writer, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	switch name {
	case FormatTSV, FormatCSV:
		return NewTableWriter(name)
	case FormatJSON:
		return NewJSONWriter(name)
	case FormatRDF:
		return NewRDFWriter(string(graph.DefaultSerialisation), ProfileRDF, opts), nil
	case FormatOWL:
		return NewRDFWriter(string(graph.DefaultSerialisation), ProfileOWL, opts), nil
	}
	if _, ok := graph.LookupSerialisation(name); ok {
		return NewRDFWriter(name, ProfileRDF, opts), nil
	}
	return nil, model.ConfigError("export", "WriterFor", "unknown output format %q", format)
}

// FormatFromExtension infers an output format from a file name.
func FormatFromExtension(filename string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case FormatTSV, FormatCSV, FormatJSON, FormatOWL, FormatRDF:
		return ext, true
	}
	if _, ok := graph.LookupSerialisation(ext); ok {
		return ext, true
	}
	return "", false
}
