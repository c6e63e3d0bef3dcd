package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/validate"
)

func doc(ms ...model.Mapping) *model.MappingSetDocument {
	set := model.NewMappingSet()
	set.MappingSetID = "http://example.org/set"
	for _, m := range ms {
		set.Add(m)
	}
	return model.NewDocument(set, prefix.NewMap("ex", "http://example.org/"))
}

func score(f float64) *float64 { return &f }

func TestDocumentValid(t *testing.T) {
	res, err := validate.Document(doc(model.Mapping{
		SubjectID:   "ex:1",
		PredicateID: "owl:equivalentClass",
		ObjectID:    "ex:2",
		Confidence:  score(0.4),
	}))
	require.NoError(t, err)
	assert.True(t, res.Valid(), res.Problems)
}

func TestDocumentAcceptsIRIs(t *testing.T) {
	res, err := validate.Document(doc(model.Mapping{
		SubjectID:   "http://example.org/1",
		PredicateID: "http://www.w3.org/2002/07/owl#equivalentClass",
		ObjectID:    "urn:uuid:2",
	}))
	require.NoError(t, err)
	assert.True(t, res.Valid(), res.Problems)
}

func TestDocumentEmptySetIsValid(t *testing.T) {
	res, err := validate.Document(doc())
	require.NoError(t, err)
	assert.True(t, res.Valid(), res.Problems)
}

func TestDocumentProblems(t *testing.T) {
	tests := []struct {
		name    string
		mapping model.Mapping
		field   string
	}{
		{
			name:    "missing object",
			mapping: model.Mapping{SubjectID: "ex:1", PredicateID: "owl:equivalentClass"},
			field:   "mappings.0",
		},
		{
			name:    "confidence above one",
			mapping: model.Mapping{SubjectID: "ex:1", PredicateID: "owl:equivalentClass", ObjectID: "ex:2", Confidence: score(1.5)},
			field:   "mappings.0.confidence",
		},
		{
			name:    "whitespace in id",
			mapping: model.Mapping{SubjectID: "ex:1 ex:3", PredicateID: "owl:equivalentClass", ObjectID: "ex:2"},
			field:   "mappings.0.subject_id",
		},
		{
			name:    "bare word as id",
			mapping: model.Mapping{SubjectID: "ex:1", PredicateID: "equivalentClass", ObjectID: "ex:2"},
			field:   "mappings.0.predicate_id",
		},
		{
			name:    "missing prefix",
			mapping: model.Mapping{SubjectID: "ex:1", PredicateID: "owl:equivalentClass", ObjectID: ":2"},
			field:   "mappings.0.object_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := validate.Document(doc(tt.mapping))
			require.NoError(t, err)
			require.False(t, res.Valid())
			assert.Equal(t, tt.field, res.Problems[0].Field)
			assert.True(t, strings.Contains(res.Error(), tt.field))
		})
	}
}

func TestSchemaCoversEverySlot(t *testing.T) {
	s := validate.Schema()
	props := s["properties"].(map[string]any)
	items := props["mappings"].(map[string]any)["items"].(map[string]any)
	mappingProps := items["properties"].(map[string]any)

	for _, name := range model.MappingFields().Names() {
		assert.Contains(t, mappingProps, name)
	}
	for _, name := range model.MappingSetFields().Names() {
		assert.Contains(t, props, name)
	}
}
