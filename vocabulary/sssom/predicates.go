package sssom

import (
	"sync"

	"github.com/c360studio/semstreams/vocabulary"
)

// Slot names as they appear in tables, JSON and YAML headers.
const (
	SlotSubjectID               = "subject_id"
	SlotSubjectLabel            = "subject_label"
	SlotSubjectCategory         = "subject_category"
	SlotPredicateID             = "predicate_id"
	SlotPredicateLabel          = "predicate_label"
	SlotObjectID                = "object_id"
	SlotObjectLabel             = "object_label"
	SlotObjectCategory          = "object_category"
	SlotMatchType               = "match_type"
	SlotCreatorID               = "creator_id"
	SlotCreatorLabel            = "creator_label"
	SlotLicense                 = "license"
	SlotSubjectSource           = "subject_source"
	SlotSubjectSourceVersion    = "subject_source_version"
	SlotObjectSource            = "object_source"
	SlotObjectSourceVersion     = "object_source_version"
	SlotMappingProvider         = "mapping_provider"
	SlotMappingTool             = "mapping_tool"
	SlotMappingToolVersion      = "mapping_tool_version"
	SlotMappingDate             = "mapping_date"
	SlotConfidence              = "confidence"
	SlotSubjectMatchField       = "subject_match_field"
	SlotObjectMatchField        = "object_match_field"
	SlotMatchString             = "match_string"
	SlotSubjectPreprocessing    = "subject_preprocessing"
	SlotObjectPreprocessing     = "object_preprocessing"
	SlotMatchTermType           = "match_term_type"
	SlotSemanticSimilarityScore = "semantic_similarity_score"
	SlotInformationContentMFOC  = "information_content_mfoc"
	SlotSeeAlso                 = "see_also"
	SlotOther                   = "other"
	SlotComment                 = "comment"

	SlotMappingSetID          = "mapping_set_id"
	SlotMappingSetVersion     = "mapping_set_version"
	SlotMappingSetDescription = "mapping_set_description"
	SlotSubjectSourceID       = "subject_source_id"
	SlotObjectSourceID        = "object_source_id"
	SlotMappings              = "mappings"

	// SlotCurieMap is the metadata key holding the prefix map. It is not a
	// model slot.
	SlotCurieMap = "curie_map"
)

// Scope says which entity carries a slot.
type Scope int

const (
	// ScopeMapping slots belong to a single mapping.
	ScopeMapping Scope = 1 << iota
	// ScopeSet slots belong to a mapping set.
	ScopeSet
)

type slotDef struct {
	name        string
	description string
	dataType    string
	scope       Scope
	iri         string
}

var slotDefs = []slotDef{
	{SlotSubjectID, "The ID of the subject of the mapping", "string", ScopeMapping, OwlAnnotatedSource},
	{SlotSubjectLabel, "The label of the subject of the mapping", "string", ScopeMapping, ""},
	{SlotSubjectCategory, "The conceptual category to which the subject belongs", "string", ScopeMapping, ""},
	{SlotPredicateID, "The ID of the predicate or relation that relates subject and object", "string", ScopeMapping, OwlAnnotatedProperty},
	{SlotPredicateLabel, "The label of the predicate or relation", "string", ScopeMapping, ""},
	{SlotObjectID, "The ID of the object of the mapping", "string", ScopeMapping, OwlAnnotatedTarget},
	{SlotObjectLabel, "The label of the object of the mapping", "string", ScopeMapping, ""},
	{SlotObjectCategory, "The conceptual category to which the object belongs", "string", ScopeMapping, ""},
	{SlotMatchType, "The type of match between subject and object", "string", ScopeMapping, ""},
	{SlotCreatorID, "Identifies the persons or groups responsible for the mapping", "string", ScopeMapping | ScopeSet, ""},
	{SlotCreatorLabel, "Label of the creator of the mapping", "string", ScopeMapping | ScopeSet, ""},
	{SlotLicense, "License under which the mappings are published", "string", ScopeMapping | ScopeSet, ""},
	{SlotSubjectSource, "IRI of the source of the subject entities", "string", ScopeMapping | ScopeSet, ""},
	{SlotSubjectSourceVersion, "Version IRI of the subject source", "string", ScopeMapping | ScopeSet, ""},
	{SlotObjectSource, "IRI of the source of the object entities", "string", ScopeMapping | ScopeSet, ""},
	{SlotObjectSourceVersion, "Version IRI of the object source", "string", ScopeMapping | ScopeSet, ""},
	{SlotMappingProvider, "URL pointing to the source that provided the mapping", "string", ScopeMapping | ScopeSet, ""},
	{SlotMappingTool, "Tool used to create the mapping", "string", ScopeMapping | ScopeSet, ""},
	{SlotMappingToolVersion, "Version of the tool used to create the mapping", "string", ScopeMapping | ScopeSet, ""},
	{SlotMappingDate, "Date the mapping was created", "string", ScopeMapping | ScopeSet, ""},
	{SlotConfidence, "Confidence score for the mapping, between 0 and 1", "float64", ScopeMapping, ""},
	{SlotSubjectMatchField, "Field of the subject that was matched", "string", ScopeMapping | ScopeSet, ""},
	{SlotObjectMatchField, "Field of the object that was matched", "string", ScopeMapping | ScopeSet, ""},
	{SlotMatchString, "String that is shared by subject and object", "string", ScopeMapping, ""},
	{SlotSubjectPreprocessing, "Preprocessing applied to the subject before matching", "string", ScopeMapping | ScopeSet, ""},
	{SlotObjectPreprocessing, "Preprocessing applied to the object before matching", "string", ScopeMapping | ScopeSet, ""},
	{SlotMatchTermType, "Type of entities that are matched", "string", ScopeMapping | ScopeSet, ""},
	{SlotSemanticSimilarityScore, "Score between 0 and 1 from a semantic similarity measure", "float64", ScopeMapping, ""},
	{SlotInformationContentMFOC, "Information content of the most informative common ancestor", "float64", ScopeMapping, ""},
	{SlotSeeAlso, "A URL specific for the mapping instance", "string", ScopeMapping | ScopeSet, ""},
	{SlotOther, "Pipe-separated list of key value pairs for properties not part of the standard", "string", ScopeMapping | ScopeSet, ""},
	{SlotComment, "Free text field containing additional information", "string", ScopeMapping | ScopeSet, ""},
	{SlotMappingSetID, "A globally unique identifier for the mapping set", "string", ScopeSet, ""},
	{SlotMappingSetVersion, "A version string for the mapping set", "string", ScopeSet, ""},
	{SlotMappingSetDescription, "A description of the mapping set", "string", ScopeSet, ""},
	{SlotSubjectSourceID, "Identifier of the ontology the subjects are drawn from", "string", ScopeSet, ""},
	{SlotObjectSourceID, "Identifier of the ontology the objects are drawn from", "string", ScopeSet, ""},
	{SlotMappings, "Contains a list of mapping objects", "string", ScopeSet, PropMappings},
}

var (
	slotIndexOnce sync.Once
	iriToSlot     map[string]string
)

func init() {
	for _, s := range slotDefs {
		iri := s.iri
		if iri == "" {
			iri = Namespace + s.name
		}
		opts := []vocabulary.Option{
			vocabulary.WithDescription(s.description),
			vocabulary.WithDataType(s.dataType),
			vocabulary.WithIRI(iri),
		}
		if s.scope&ScopeMapping != 0 {
			vocabulary.Register(MappingPredicate(s.name), opts...)
		}
		if s.scope&ScopeSet != 0 {
			vocabulary.Register(SetPredicate(s.name), opts...)
		}
	}
}

// MappingPredicate returns the registry name of a mapping slot.
func MappingPredicate(slot string) string {
	return "sssom.mapping." + slot
}

// SetPredicate returns the registry name of a mapping set slot.
func SetPredicate(slot string) string {
	return "sssom.set." + slot
}

// SlotIRI resolves the RDF IRI of a slot through the vocabulary registry.
// Unregistered slots fall back to the SSSOM namespace.
func SlotIRI(slot string) string {
	for _, pred := range []string{MappingPredicate(slot), SetPredicate(slot)} {
		if meta := vocabulary.GetPredicateMetadata(pred); meta != nil && meta.StandardIRI != "" {
			return meta.StandardIRI
		}
	}
	return Namespace + slot
}

// SlotForIRI is the inverse of SlotIRI over the registered slots.
func SlotForIRI(iri string) (string, bool) {
	slotIndexOnce.Do(func() {
		iriToSlot = make(map[string]string, len(slotDefs))
		for _, s := range slotDefs {
			iriToSlot[SlotIRI(s.name)] = s.name
		}
	})
	slot, ok := iriToSlot[iri]
	return slot, ok
}

// SlotInfo describes a registered slot.
type SlotInfo struct {
	Name  string
	Scope Scope
}

// Slots returns every registered slot in definition order.
func Slots() []SlotInfo {
	out := make([]SlotInfo, len(slotDefs))
	for i, s := range slotDefs {
		out[i] = SlotInfo{Name: s.name, Scope: s.scope}
	}
	return out
}
