package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/c360studio/semmap/vocabulary/sssom"
)

// FieldKind says how a slot value is typed.
type FieldKind int

const (
	// KindString is free text.
	KindString FieldKind = iota
	// KindEntity holds a CURIE or IRI.
	KindEntity
	// KindFloat holds a number.
	KindFloat
)

// Field is a statically registered slot of T with typed accessors.
type Field[T any] struct {
	Name string
	Kind FieldKind

	str func(*T) *string
	num func(*T) **float64
}

// Get returns the value of the field formatted as text. The boolean is
// false when the field is unset.
func (f Field[T]) Get(v *T) (string, bool) {
	if f.num != nil {
		p := *f.num(v)
		if p == nil {
			return "", false
		}
		return FormatFloat(*p), true
	}
	s := *f.str(v)
	return s, s != ""
}

// Float returns the numeric value of a float field.
func (f Field[T]) Float(v *T) (float64, bool) {
	if f.num == nil {
		return 0, false
	}
	p := *f.num(v)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set assigns a textual value, parsing it for float fields.
func (f Field[T]) Set(v *T, raw string) error {
	if f.num == nil {
		*f.str(v) = raw
		return nil
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return FormatError("model", "Field.Set", "field %s: %q is not a number", f.Name, raw)
	}
	*f.num(v) = &x
	return nil
}

// SetValue assigns a decoded YAML or JSON value.
func (f Field[T]) SetValue(v *T, val any) error {
	switch x := val.(type) {
	case nil:
		f.Clear(v)
		return nil
	case string:
		return f.Set(v, x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return f.Set(v, x.Format(time.DateOnly))
		}
		return f.Set(v, x.Format(time.RFC3339))
	}
	if n, ok := toFloat(val); ok {
		if f.num != nil {
			*f.num(v) = &n
			return nil
		}
		return f.Set(v, fmt.Sprint(val))
	}
	return f.Set(v, fmt.Sprint(val))
}

// Clear unsets the field.
func (f Field[T]) Clear(v *T) {
	if f.num != nil {
		*f.num(v) = nil
		return
	}
	*f.str(v) = ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// FormatFloat renders a number in its shortest form, so 1 stays "1".
func FormatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Fields is an ordered, name-indexed set of slots.
type Fields[T any] struct {
	all    []Field[T]
	byName map[string]Field[T]
}

func newFields[T any](fs ...Field[T]) *Fields[T] {
	idx := make(map[string]Field[T], len(fs))
	for _, f := range fs {
		idx[f.Name] = f
	}
	return &Fields[T]{all: fs, byName: idx}
}

// Lookup finds a field by slot name.
func (fs *Fields[T]) Lookup(name string) (Field[T], bool) {
	f, ok := fs.byName[name]
	return f, ok
}

// Has reports whether name is a registered slot.
func (fs *Fields[T]) Has(name string) bool {
	_, ok := fs.byName[name]
	return ok
}

// All returns the fields in registry order. The slice must not be modified.
func (fs *Fields[T]) All() []Field[T] {
	return fs.all
}

// Names returns the slot names in registry order.
func (fs *Fields[T]) Names() []string {
	out := make([]string, len(fs.all))
	for i, f := range fs.all {
		out[i] = f.Name
	}
	return out
}

func text[T any](name string, kind FieldKind, get func(*T) *string) Field[T] {
	return Field[T]{Name: name, Kind: kind, str: get}
}

func number[T any](name string, get func(*T) **float64) Field[T] {
	return Field[T]{Name: name, Kind: KindFloat, num: get}
}

var mappingFields = newFields(
	text(sssom.SlotSubjectID, KindEntity, func(m *Mapping) *string { return &m.SubjectID }),
	text(sssom.SlotSubjectLabel, KindString, func(m *Mapping) *string { return &m.SubjectLabel }),
	text(sssom.SlotSubjectCategory, KindString, func(m *Mapping) *string { return &m.SubjectCategory }),
	text(sssom.SlotPredicateID, KindEntity, func(m *Mapping) *string { return &m.PredicateID }),
	text(sssom.SlotPredicateLabel, KindString, func(m *Mapping) *string { return &m.PredicateLabel }),
	text(sssom.SlotObjectID, KindEntity, func(m *Mapping) *string { return &m.ObjectID }),
	text(sssom.SlotObjectLabel, KindString, func(m *Mapping) *string { return &m.ObjectLabel }),
	text(sssom.SlotObjectCategory, KindString, func(m *Mapping) *string { return &m.ObjectCategory }),
	text(sssom.SlotMatchType, KindString, func(m *Mapping) *string { return &m.MatchType }),
	text(sssom.SlotCreatorID, KindEntity, func(m *Mapping) *string { return &m.CreatorID }),
	text(sssom.SlotCreatorLabel, KindString, func(m *Mapping) *string { return &m.CreatorLabel }),
	text(sssom.SlotLicense, KindEntity, func(m *Mapping) *string { return &m.License }),
	text(sssom.SlotSubjectSource, KindEntity, func(m *Mapping) *string { return &m.SubjectSource }),
	text(sssom.SlotSubjectSourceVersion, KindString, func(m *Mapping) *string { return &m.SubjectSourceVersion }),
	text(sssom.SlotObjectSource, KindEntity, func(m *Mapping) *string { return &m.ObjectSource }),
	text(sssom.SlotObjectSourceVersion, KindString, func(m *Mapping) *string { return &m.ObjectSourceVersion }),
	text(sssom.SlotMappingProvider, KindString, func(m *Mapping) *string { return &m.MappingProvider }),
	text(sssom.SlotMappingTool, KindString, func(m *Mapping) *string { return &m.MappingTool }),
	text(sssom.SlotMappingToolVersion, KindString, func(m *Mapping) *string { return &m.MappingToolVersion }),
	text(sssom.SlotMappingDate, KindString, func(m *Mapping) *string { return &m.MappingDate }),
	number(sssom.SlotConfidence, func(m *Mapping) **float64 { return &m.Confidence }),
	text(sssom.SlotSubjectMatchField, KindEntity, func(m *Mapping) *string { return &m.SubjectMatchField }),
	text(sssom.SlotObjectMatchField, KindEntity, func(m *Mapping) *string { return &m.ObjectMatchField }),
	text(sssom.SlotMatchString, KindString, func(m *Mapping) *string { return &m.MatchString }),
	text(sssom.SlotSubjectPreprocessing, KindEntity, func(m *Mapping) *string { return &m.SubjectPreprocessing }),
	text(sssom.SlotObjectPreprocessing, KindEntity, func(m *Mapping) *string { return &m.ObjectPreprocessing }),
	text(sssom.SlotMatchTermType, KindString, func(m *Mapping) *string { return &m.MatchTermType }),
	number(sssom.SlotSemanticSimilarityScore, func(m *Mapping) **float64 { return &m.SemanticSimilarityScore }),
	number(sssom.SlotInformationContentMFOC, func(m *Mapping) **float64 { return &m.InformationContentMFOC }),
	text(sssom.SlotSeeAlso, KindString, func(m *Mapping) *string { return &m.SeeAlso }),
	text(sssom.SlotOther, KindString, func(m *Mapping) *string { return &m.Other }),
	text(sssom.SlotComment, KindString, func(m *Mapping) *string { return &m.Comment }),
)

var mappingSetFields = newFields(
	text(sssom.SlotMappingSetID, KindEntity, func(s *MappingSet) *string { return &s.MappingSetID }),
	text(sssom.SlotMappingSetVersion, KindString, func(s *MappingSet) *string { return &s.MappingSetVersion }),
	text(sssom.SlotMappingSetDescription, KindString, func(s *MappingSet) *string { return &s.MappingSetDescription }),
	text(sssom.SlotCreatorID, KindEntity, func(s *MappingSet) *string { return &s.CreatorID }),
	text(sssom.SlotCreatorLabel, KindString, func(s *MappingSet) *string { return &s.CreatorLabel }),
	text(sssom.SlotLicense, KindEntity, func(s *MappingSet) *string { return &s.License }),
	text(sssom.SlotSubjectSource, KindEntity, func(s *MappingSet) *string { return &s.SubjectSource }),
	text(sssom.SlotSubjectSourceID, KindEntity, func(s *MappingSet) *string { return &s.SubjectSourceID }),
	text(sssom.SlotSubjectSourceVersion, KindString, func(s *MappingSet) *string { return &s.SubjectSourceVersion }),
	text(sssom.SlotObjectSource, KindEntity, func(s *MappingSet) *string { return &s.ObjectSource }),
	text(sssom.SlotObjectSourceID, KindEntity, func(s *MappingSet) *string { return &s.ObjectSourceID }),
	text(sssom.SlotObjectSourceVersion, KindString, func(s *MappingSet) *string { return &s.ObjectSourceVersion }),
	text(sssom.SlotMappingProvider, KindString, func(s *MappingSet) *string { return &s.MappingProvider }),
	text(sssom.SlotMappingTool, KindString, func(s *MappingSet) *string { return &s.MappingTool }),
	text(sssom.SlotMappingToolVersion, KindString, func(s *MappingSet) *string { return &s.MappingToolVersion }),
	text(sssom.SlotMappingDate, KindString, func(s *MappingSet) *string { return &s.MappingDate }),
	text(sssom.SlotSubjectMatchField, KindEntity, func(s *MappingSet) *string { return &s.SubjectMatchField }),
	text(sssom.SlotObjectMatchField, KindEntity, func(s *MappingSet) *string { return &s.ObjectMatchField }),
	text(sssom.SlotSubjectPreprocessing, KindEntity, func(s *MappingSet) *string { return &s.SubjectPreprocessing }),
	text(sssom.SlotObjectPreprocessing, KindEntity, func(s *MappingSet) *string { return &s.ObjectPreprocessing }),
	text(sssom.SlotMatchTermType, KindString, func(s *MappingSet) *string { return &s.MatchTermType }),
	text(sssom.SlotSeeAlso, KindString, func(s *MappingSet) *string { return &s.SeeAlso }),
	text(sssom.SlotOther, KindString, func(s *MappingSet) *string { return &s.Other }),
	text(sssom.SlotComment, KindString, func(s *MappingSet) *string { return &s.Comment }),
)

// MappingFields returns the slot registry of Mapping.
func MappingFields() *Fields[Mapping] { return mappingFields }

// MappingSetFields returns the slot registry of MappingSet.
func MappingSetFields() *Fields[MappingSet] { return mappingSetFields }
