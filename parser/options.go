// Package parser reads mapping sets from tables, RDF graphs, alignment XML
// and JSON into the canonical model.
package parser

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
)

// Options carries the caller context of a parse.
type Options struct {
	// Prefixes is the caller's prefix map. Parsers never modify it.
	Prefixes *prefix.Map

	// Metadata, when non-nil, replaces any metadata embedded in the input.
	Metadata model.Metadata

	// Serialisation overrides the delimiter or RDF syntax otherwise
	// inferred from Filename.
	Serialisation string

	// Filename is used only for inference and messages.
	Filename string

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

// resolvePrefixes validates a candidate prefix map and adds the built-ins to
// a private copy. Differing built-ins are reported, never applied.
func (o Options) resolvePrefixes(candidate *prefix.Map, component string) (*prefix.Map, error) {
	if candidate.Len() == 0 {
		return nil, model.ConfigError(component, "Parse", "no valid curie_map provided")
	}
	resolved, conflicts := prefix.AddBuiltIns(candidate.Clone())
	for _, c := range conflicts {
		o.warn(model.Warning{Kind: model.WarnPrefixConflict, Name: c.Prefix, Message: c.String()})
	}
	return resolved, nil
}

// unknownNames counts input names that match no model slot.
type unknownNames map[string]int

func (u unknownNames) add(name string) {
	u[name]++
}

// report emits one warning per name, in name order.
func (u unknownNames) report(o Options) {
	for _, name := range slices.Sorted(maps.Keys(u)) {
		o.warn(model.Warning{
			Kind:    model.WarnFieldMapping,
			Name:    name,
			Count:   u[name],
			Message: "No model slot for " + name,
		})
	}
}

// add normalizes a freshly built mapping and appends it to the set.
func add(set *model.MappingSet, m model.Mapping) {
	model.Normalize(&m)
	set.Add(m)
}

// finish merges caller or header metadata into the set and wraps it in a
// document.
func finish(set *model.MappingSet, prefixes *prefix.Map, meta model.Metadata) (*model.MappingSetDocument, error) {
	if err := set.ApplyMetadata(meta); err != nil {
		return nil, err
	}
	return model.NewDocument(set, prefixes), nil
}
