package parser

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/c360studio/semmap/graph"
	"github.com/c360studio/semmap/model"
)

// Parser reads one input format into a mapping set document.
type Parser interface {
	// Parse reads r. Parsers never modify opts.Prefixes.
	Parse(r io.Reader, opts Options) (*model.MappingSetDocument, error)

	// Format returns the format name the parser is registered under.
	Format() string
}

// Registry manages parsers by format name.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser // keyed by format name
}

// DefaultRegistry is the global parser registry with default parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new parser registry with default parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	r.Register(NewTableParser(FormatTSV))
	r.Register(NewTableParser(FormatCSV))
	r.Register(NewGraphParser(FormatRDF))
	r.Register(NewGraphParser(FormatOWL))
	r.Register(NewAlignmentParser())
	r.Register(NewJSONParser())

	return r
}

// Register adds a parser to the registry, replacing any parser of the same
// format.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
}

// Get returns the parser for a format name.
func (r *Registry) Get(format string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[strings.ToLower(format)]; ok {
		return p, nil
	}
	return nil, model.ConfigError("parser.Registry", "Get", "unknown input format %q", format)
}

// Parse reads r with the parser registered for format.
func (r *Registry) Parse(rd io.Reader, format string, opts Options) (*model.MappingSetDocument, error) {
	p, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	return p.Parse(rd, opts)
}

// ParseFile opens path and parses it. An empty format is inferred from the
// file extension.
func (r *Registry) ParseFile(path, format string, opts Options) (*model.MappingSetDocument, error) {
	if format == "" {
		var ok bool
		if format, ok = FormatFromExtension(path); !ok {
			return nil, model.ConfigError("parser.Registry", "ParseFile",
				"cannot infer input format of %s", filepath.Base(path))
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts.Filename = path
	return r.Parse(f, format, opts)
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// FormatFromExtension returns the input format for a file name.
func FormatFromExtension(filename string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case FormatTSV, FormatCSV, FormatJSON:
		return ext, true
	case FormatOWL:
		return FormatOWL, true
	case FormatRDF:
		return FormatRDF, true
	case "xml":
		return FormatAlignment, true
	}
	if _, ok := graph.LookupSerialisation(ext); ok {
		return FormatRDF, true
	}
	return "", false
}
