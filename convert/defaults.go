package convert

import (
	"github.com/google/uuid"

	"github.com/c360studio/semmap/model"
)

const (
	// DefaultMappingSetBase prefixes minted mapping_set_id values.
	DefaultMappingSetBase = "http://w3id.org/sssom/mappings/"

	// DefaultLicense is given to sets that declare none.
	DefaultLicense = "https://w3id.org/sssom/license/unspecified"
)

// DefaultMetadata returns the metadata of a set that declares nothing: a
// freshly minted mapping_set_id and the unspecified license.
func DefaultMetadata() model.Metadata {
	return model.Metadata{
		"mapping_set_id": DefaultMappingSetBase + uuid.NewString(),
		"license":        DefaultLicense,
	}
}

// FillDefaults gives set a minted mapping_set_id and the default license
// when it lacks them.
func FillDefaults(set *model.MappingSet) {
	if set.MappingSetID == "" {
		set.MappingSetID = DefaultMappingSetBase + uuid.NewString()
	}
	if set.License == "" {
		set.License = DefaultLicense
	}
}
