package prefix

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed contexts/sssom.context.jsonld
var sssomContext []byte

//go:embed contexts/sssom.external.context.jsonld
var sssomExternalContext []byte

// ContextEntry is one term of a JSON-LD @context.
type ContextEntry struct {
	// Term is the context key.
	Term string

	// IRI is set when the entry is a plain string or carries an @id.
	IRI string

	// Plain is true when the entry was given as a bare IRI string.
	Plain bool

	// Prefix mirrors the @prefix flag of a structured entry.
	Prefix bool
}

// Declarable reports whether the entry can act as a CURIE prefix.
func (e ContextEntry) Declarable() bool {
	if strings.HasPrefix(e.Term, "@") || e.IRI == "" {
		return false
	}
	return e.Plain || e.Prefix
}

// Context is a parsed JSON-LD context in declaration order.
type Context struct {
	Entries []ContextEntry
}

// ParseContext parses a JSON-LD document holding an "@context" object.
func ParseContext(data []byte) (*Context, error) {
	top, err := decodeOrderedObject(data)
	if err != nil {
		return nil, fmt.Errorf("parse context document: %w", err)
	}

	var body json.RawMessage
	for _, e := range top {
		if e.key == "@context" {
			body = e.value
		}
	}
	if body == nil {
		return nil, fmt.Errorf("context document has no @context")
	}

	members, err := decodeOrderedObject(body)
	if err != nil {
		return nil, fmt.Errorf("parse @context: %w", err)
	}

	ctx := &Context{Entries: make([]ContextEntry, 0, len(members))}
	for _, m := range members {
		entry := ContextEntry{Term: m.key}

		var plain string
		if err := json.Unmarshal(m.value, &plain); err == nil {
			entry.IRI = plain
			entry.Plain = true
			ctx.Entries = append(ctx.Entries, entry)
			continue
		}

		var structured struct {
			ID     string `json:"@id"`
			Prefix bool   `json:"@prefix"`
		}
		if err := json.Unmarshal(m.value, &structured); err != nil {
			// Arrays, nulls and other shapes carry no prefix information.
			continue
		}
		entry.IRI = structured.ID
		entry.Prefix = structured.Prefix
		ctx.Entries = append(ctx.Entries, entry)
	}
	return ctx, nil
}

// PrefixMap returns every declarable entry of the context.
func (c *Context) PrefixMap() *Map {
	m := NewMap()
	for _, e := range c.Entries {
		if e.Declarable() {
			m.Set(e.Term, e.IRI)
		}
	}
	return m
}

func mustParse(data []byte, name string) *Context {
	ctx, err := ParseContext(data)
	if err != nil {
		panic(fmt.Sprintf("embedded context %s: %v", name, err))
	}
	return ctx
}

// SSSOMContext returns the built-in SSSOM JSON-LD context.
func SSSOMContext() *Context {
	return mustParse(sssomContext, "sssom.context.jsonld")
}

// ExternalContext returns the bundled external prefix context.
func ExternalContext() *Context {
	return mustParse(sssomExternalContext, "sssom.external.context.jsonld")
}
