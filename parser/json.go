package parser

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// FormatJSON is the JSON document form of a mapping set.
const FormatJSON = "json"

// JSONParser reads the documents written by the JSON writer.
type JSONParser struct{}

// NewJSONParser returns a JSON parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Format returns the format name the parser is registered under.
func (p *JSONParser) Format() string {
	return FormatJSON
}

// Parse reads a JSON mapping set. A non-empty @context overrides the
// caller's prefixes, as a table header curie_map does.
func (p *JSONParser) Parse(r io.Reader, opts Options) (*model.MappingSetDocument, error) {
	log := opts.logger()

	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, model.WrapFormat(err, "parser.JSONParser", "Parse")
	}

	candidate := opts.Prefixes
	if raw, ok := top["@context"]; ok {
		ctx := prefix.NewMap()
		if err := json.Unmarshal(raw, ctx); err != nil {
			return nil, model.WrapFormat(err, "parser.JSONParser", "Parse")
		}
		if ctx.Len() > 0 {
			log.Info("Document provides its own @context, caller prefixes are disregarded", slog.String("file", opts.Filename))
			candidate = ctx
		}
	}
	prefixes, err := opts.resolvePrefixes(candidate, "parser.JSONParser")
	if err != nil {
		return nil, err
	}

	set := model.NewMappingSet()
	meta := model.Metadata{}
	for k, raw := range top {
		switch k {
		case "@context", "@type", "@id", sssom.SlotMappings:
			continue
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, model.WrapFormat(err, "parser.JSONParser", "Parse")
		}
		meta[k] = v
	}
	if id, ok := top["@id"]; ok && meta[sssom.SlotMappingSetID] == nil {
		var s string
		if json.Unmarshal(id, &s) == nil {
			meta[sssom.SlotMappingSetID] = s
		}
	}
	if err := set.ApplyMetadata(meta); err != nil {
		return nil, err
	}

	var rows []map[string]json.RawMessage
	if raw, ok := top[sssom.SlotMappings]; ok {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, model.WrapFormat(err, "parser.JSONParser", "Parse")
		}
	}

	fields := model.MappingFields()
	unknown := unknownNames{}
	for _, row := range rows {
		var m model.Mapping
		for k, raw := range row {
			if k == "@type" || k == "@id" {
				continue
			}
			f, ok := fields.Lookup(k)
			if !ok {
				unknown.add(k)
				continue
			}
			v, err := decodeValue(raw)
			if err != nil {
				return nil, model.WrapFormat(err, "parser.JSONParser", "Parse")
			}
			if err := f.SetValue(&m, v); err != nil {
				return nil, err
			}
		}
		add(set, m)
	}
	unknown.report(opts)

	return finish(set, prefixes, opts.Metadata)
}

func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
