package export

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// JSONWriter writes the mapping set as a linked-data JSON object whose
// @context is the prefix map.
type JSONWriter struct{}

// NewJSONWriter returns a JSON writer. Only the json serialisation exists.
func NewJSONWriter(serialisation string) (*JSONWriter, error) {
	if serialisation != FormatJSON && serialisation != "" {
		return nil, model.ConfigError("export", "NewJSONWriter",
			"unknown json format %q, currently only json supported", serialisation)
	}
	return &JSONWriter{}, nil
}

// Format returns the output format the writer produces.
func (jw *JSONWriter) Format() string {
	return FormatJSON
}

// Write emits the document with two-space indentation.
func (jw *JSONWriter) Write(w io.Writer, doc *model.MappingSetDocument) error {
	obj := ToJSON(doc)
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// member is one key of an object that keeps insertion order.
type member struct {
	Key   string
	Value any
}

// Object is a JSON object that marshals its members in order.
type Object []member

// Set appends a member.
func (o *Object) Set(key string, value any) {
	*o = append(*o, member{Key: key, Value: value})
}

// MarshalJSON implements json.Marshaler.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON builds the JSON form of doc: @context, @type, set fields in
// registry order, extra keys sorted and the mappings array. Floats stay
// numbers.
func ToJSON(doc *model.MappingSetDocument) Object {
	set := doc.MappingSet
	var obj Object
	obj.Set("@context", doc.Prefixes)
	obj.Set("@type", "MappingSet")
	for _, f := range model.MappingSetFields().All() {
		if v, ok := f.Get(set); ok {
			obj.Set(f.Name, v)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(set.Extra)) {
		if k == sssom.SlotCurieMap || model.MappingSetFields().Has(k) {
			continue
		}
		obj.Set(k, set.Extra[k])
	}

	mappings := make([]Object, 0, len(set.Mappings))
	fields := model.MappingFields().All()
	for i := range set.Mappings {
		m := &set.Mappings[i]
		var row Object
		for _, f := range fields {
			if f.Kind == model.KindFloat {
				if x, ok := f.Float(m); ok {
					row.Set(f.Name, x)
				}
				continue
			}
			if v, ok := f.Get(m); ok {
				row.Set(f.Name, v)
			}
		}
		mappings = append(mappings, row)
	}
	obj.Set(sssom.SlotMappings, mappings)
	return obj
}
