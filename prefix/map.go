// Package prefix resolves CURIE prefix maps and converts between compact
// identifiers and full IRIs.
//
// A Map keeps its entries in declaration order. The order is significant:
// Contract returns the first namespace that matches, not the longest.
package prefix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"sort"

	"gopkg.in/yaml.v3"
)

// Map is an ordered prefix → namespace map.
type Map struct {
	keys []string
	ns   map[string]string
}

// NewMap creates a map from alternating prefix, namespace arguments.
func NewMap(pairs ...string) *Map {
	m := &Map{ns: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// FromStringMap builds a map from an unordered Go map. Keys are sorted so the
// result is deterministic.
func FromStringMap(src map[string]string) *Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := NewMap()
	for _, k := range keys {
		m.Set(k, src[k])
	}
	return m
}

// FromAny converts a decoded metadata value (a *Map, map[string]string or
// map[string]any of strings) into a Map.
func FromAny(v any) (*Map, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Map:
		return t.Clone(), nil
	case map[string]string:
		return FromStringMap(t), nil
	case map[string]any:
		plain := make(map[string]string, len(t))
		for k, raw := range t {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("prefix %q: namespace must be a string, got %T", k, raw)
			}
			plain[k] = s
		}
		return FromStringMap(plain), nil
	default:
		return nil, fmt.Errorf("unsupported prefix map type %T", v)
	}
}

// Set inserts or updates a prefix. New prefixes are appended to the order;
// updating keeps the original position.
func (m *Map) Set(prefix, namespace string) {
	if m.ns == nil {
		m.ns = make(map[string]string)
	}
	if _, ok := m.ns[prefix]; !ok {
		m.keys = append(m.keys, prefix)
	}
	m.ns[prefix] = namespace
}

// Get returns the namespace for a prefix.
func (m *Map) Get(prefix string) (string, bool) {
	if m == nil {
		return "", false
	}
	ns, ok := m.ns[prefix]
	return ns, ok
}

// Has reports whether the prefix is declared.
func (m *Map) Has(prefix string) bool {
	_, ok := m.Get(prefix)
	return ok
}

// Delete removes a prefix.
func (m *Map) Delete(prefix string) {
	if m == nil {
		return
	}
	if _, ok := m.ns[prefix]; !ok {
		return
	}
	delete(m.ns, prefix)
	for i, k := range m.keys {
		if k == prefix {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of prefixes.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the prefixes in declaration order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates prefix, namespace pairs in declaration order.
func (m *Map) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.ns[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	out := NewMap()
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

// StringMap returns an unordered copy.
func (m *Map) StringMap() map[string]string {
	out := make(map[string]string, m.Len())
	for k, v := range m.All() {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if other.keys[i] != k || other.ns[k] != m.ns[k] {
			return false
		}
	}
	return true
}

// MarshalYAML emits a mapping node in declaration order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node keeping document order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: prefix map must be a mapping", node.Line)
	}
	*m = Map{ns: make(map[string]string, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: namespace for %q must be a string", val.Line, key.Value)
		}
		m.Set(key.Value, val.Value)
	}
	return nil
}

// MarshalJSON emits an object in declaration order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping document order.
func (m *Map) UnmarshalJSON(data []byte) error {
	entries, err := decodeOrderedObject(data)
	if err != nil {
		return err
	}
	*m = Map{ns: make(map[string]string, len(entries))}
	for _, e := range entries {
		var ns string
		if err := json.Unmarshal(e.value, &ns); err != nil {
			return fmt.Errorf("namespace for %q must be a string: %w", e.key, err)
		}
		m.Set(e.key, ns)
	}
	return nil
}

type rawEntry struct {
	key   string
	value json.RawMessage
}

// decodeOrderedObject splits a JSON object into its members in source order.
func decodeOrderedObject(data []byte) ([]rawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object")
	}

	var entries []rawEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		entries = append(entries, rawEntry{key: key, value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}
