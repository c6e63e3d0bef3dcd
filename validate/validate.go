// Package validate checks the canonical JSON form of a mapping set against a
// JSON schema derived from the slot registry.
package validate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360studio/semmap/export"
	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// Problem is one schema violation.
type Problem struct {
	Field       string
	Description string
}

func (p Problem) String() string {
	return p.Field + ": " + p.Description
}

// Result lists the violations of a document. A valid document has none.
type Result struct {
	Problems []Problem
}

// Valid reports whether the document passed.
func (r *Result) Valid() bool {
	return len(r.Problems) == 0
}

// Error renders every problem, one per line.
func (r *Result) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "mapping set validation failed with %d problem(s):\n", len(r.Problems))
	for _, p := range r.Problems {
		sb.WriteString("  - ")
		sb.WriteString(p.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiled() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(Schema()))
	})
	return schema, schemaErr
}

// Document validates the JSON form of doc. The error is only set when the
// schema itself cannot be used.
func Document(doc *model.MappingSetDocument) (*Result, error) {
	s, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("compile mapping set schema: %w", err)
	}

	res, err := s.Validate(gojsonschema.NewGoLoader(export.ToJSON(doc)))
	if err != nil {
		return nil, fmt.Errorf("validate mapping set: %w", err)
	}

	out := &Result{}
	for _, desc := range res.Errors() {
		out.Problems = append(out.Problems, Problem{Field: desc.Field(), Description: desc.Description()})
	}
	return out, nil
}

// Schema returns the JSON schema of the canonical JSON form. Mapping objects
// accept registered slots only and need subject, predicate and object ids.
func Schema() map[string]any {
	mappingProps := map[string]any{}
	for _, f := range model.MappingFields().All() {
		mappingProps[f.Name] = slotSchema(f.Name, f.Kind)
	}

	setProps := map[string]any{
		"@context": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "string"},
		},
		"@type": map[string]any{"const": "MappingSet"},
		sssom.SlotMappings: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"properties":           mappingProps,
				"required":             []any{sssom.SlotSubjectID, sssom.SlotPredicateID, sssom.SlotObjectID},
				"additionalProperties": false,
			},
		},
	}
	for _, f := range model.MappingSetFields().All() {
		setProps[f.Name] = slotSchema(f.Name, f.Kind)
	}

	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      "Mapping set",
		"type":       "object",
		"properties": setProps,
		"required":   []any{"@context", sssom.SlotMappings},
	}
}

// entityPattern accepts a CURIE or an absolute IRI; an IRI is a CURIE whose
// prefix is the scheme.
const entityPattern = `^[A-Za-z_][A-Za-z0-9_.+\-]*:\S+$`

var unitInterval = map[string]bool{
	sssom.SlotConfidence:              true,
	sssom.SlotSemanticSimilarityScore: true,
}

func slotSchema(name string, kind model.FieldKind) map[string]any {
	switch kind {
	case model.KindFloat:
		s := map[string]any{"type": "number"}
		if unitInterval[name] {
			s["minimum"] = 0
			s["maximum"] = 1
		} else {
			s["minimum"] = 0
		}
		return s
	case model.KindEntity:
		return map[string]any{"type": "string", "pattern": entityPattern}
	}
	return map[string]any{"type": "string"}
}
