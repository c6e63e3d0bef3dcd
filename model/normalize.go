package model

import "github.com/c360studio/semmap/vocabulary/sssom"

// MirroredPair names a subject slot and its object counterpart.
type MirroredPair struct {
	Subject string
	Object  string
}

// MirroredPairs lists every subject_X slot of Mapping with its object_X
// twin. Both slots of a pair share a kind.
var MirroredPairs = []MirroredPair{
	{sssom.SlotSubjectID, sssom.SlotObjectID},
	{sssom.SlotSubjectLabel, sssom.SlotObjectLabel},
	{sssom.SlotSubjectCategory, sssom.SlotObjectCategory},
	{sssom.SlotSubjectSource, sssom.SlotObjectSource},
	{sssom.SlotSubjectSourceVersion, sssom.SlotObjectSourceVersion},
	{sssom.SlotSubjectMatchField, sssom.SlotObjectMatchField},
	{sssom.SlotSubjectPreprocessing, sssom.SlotObjectPreprocessing},
}

// inversePredicates maps an inverse predicate to its forward form, in both
// CURIE and IRI spelling.
var inversePredicates = map[string]string{
	"sssom:superClassOf":   "rdfs:subClassOf",
	sssom.PropSuperClassOf: sssom.RdfsSubClassOf,
}

// ForwardPredicate returns the canonical forward form of an inverse
// predicate.
func ForwardPredicate(predicate string) (string, bool) {
	fwd, ok := inversePredicates[predicate]
	return fwd, ok
}

// Normalize rewrites a mapping with an inverse predicate into its forward
// form, swapping every mirrored subject and object slot. It reports whether
// the mapping changed. A normalized mapping is left alone.
func Normalize(m *Mapping) bool {
	fwd, ok := inversePredicates[m.PredicateID]
	if !ok {
		return false
	}
	m.PredicateID = fwd
	for _, p := range MirroredPairs {
		s, _ := mappingFields.Lookup(p.Subject)
		o, _ := mappingFields.Lookup(p.Object)
		swap(m, s, o)
	}
	return true
}

func swap(m *Mapping, a, b Field[Mapping]) {
	if a.num != nil {
		pa, pb := a.num(m), b.num(m)
		*pa, *pb = *pb, *pa
		return
	}
	pa, pb := a.str(m), b.str(m)
	*pa, *pb = *pb, *pa
}
