// Package model defines the canonical mapping entities every format reads
// into and writes from.
package model

import (
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// Metadata holds set-level annotations keyed by slot or free-form name.
type Metadata map[string]any

// Mapping is one asserted correspondence between a subject and an object.
type Mapping struct {
	SubjectID       string
	SubjectLabel    string
	SubjectCategory string
	PredicateID     string
	PredicateLabel  string
	ObjectID        string
	ObjectLabel     string
	ObjectCategory  string
	MatchType       string

	CreatorID          string
	CreatorLabel       string
	License            string
	MappingProvider    string
	MappingTool        string
	MappingToolVersion string
	MappingDate        string

	SubjectSource        string
	SubjectSourceVersion string
	ObjectSource         string
	ObjectSourceVersion  string
	SubjectMatchField    string
	ObjectMatchField     string
	SubjectPreprocessing string
	ObjectPreprocessing  string

	MatchString   string
	MatchTermType string

	Confidence              *float64
	SemanticSimilarityScore *float64
	InformationContentMFOC  *float64

	SeeAlso string
	Other   string
	Comment string
}

// MappingSet is an ordered collection of mappings with set-level fields.
type MappingSet struct {
	MappingSetID          string
	MappingSetVersion     string
	MappingSetDescription string

	CreatorID          string
	CreatorLabel       string
	License            string
	MappingProvider    string
	MappingTool        string
	MappingToolVersion string
	MappingDate        string

	SubjectSource        string
	SubjectSourceID      string
	SubjectSourceVersion string
	ObjectSource         string
	ObjectSourceID       string
	ObjectSourceVersion  string
	SubjectMatchField    string
	ObjectMatchField     string
	SubjectPreprocessing string
	ObjectPreprocessing  string
	MatchTermType        string

	SeeAlso string
	Other   string
	Comment string

	// Mappings is never nil for a set built with NewMappingSet.
	Mappings []Mapping

	// Extra holds metadata keys that name no set field.
	Extra Metadata
}

// NewMappingSet returns an empty set ready to receive mappings.
func NewMappingSet() *MappingSet {
	return &MappingSet{
		Mappings: []Mapping{},
		Extra:    Metadata{},
	}
}

// Add appends a mapping to the set.
func (s *MappingSet) Add(m Mapping) {
	s.Mappings = append(s.Mappings, m)
}

// ApplyMetadata merges meta into the set. Keys naming a set field are
// assigned; everything else lands in Extra. The curie_map key is skipped.
func (s *MappingSet) ApplyMetadata(meta Metadata) error {
	if s.Extra == nil {
		s.Extra = Metadata{}
	}
	fields := MappingSetFields()
	for k, v := range meta {
		if k == sssom.SlotCurieMap {
			continue
		}
		f, ok := fields.Lookup(k)
		if !ok {
			s.Extra[k] = v
			continue
		}
		if err := f.SetValue(s, v); err != nil {
			return err
		}
	}
	return nil
}

// Metadata returns the set fields and extras as a flat map, without the
// mappings.
func (s *MappingSet) Metadata() Metadata {
	out := Metadata{}
	for _, f := range MappingSetFields().All() {
		if v, ok := f.Get(s); ok {
			out[f.Name] = v
		}
	}
	for k, v := range s.Extra {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// MappingSetDocument pairs a mapping set with the prefix map in effect when
// it was produced.
type MappingSetDocument struct {
	MappingSet *MappingSet
	Prefixes   *prefix.Map
}

// NewDocument builds a document, replacing a nil set with an empty one.
func NewDocument(set *MappingSet, prefixes *prefix.Map) *MappingSetDocument {
	if set == nil {
		set = NewMappingSet()
	}
	if set.Mappings == nil {
		set.Mappings = []Mapping{}
	}
	if prefixes == nil {
		prefixes = prefix.NewMap()
	}
	return &MappingSetDocument{MappingSet: set, Prefixes: prefixes}
}
