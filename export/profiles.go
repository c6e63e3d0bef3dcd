package export

// Profile determines which graph rewrites run before an RDF export.
type Profile string

const (
	// ProfileRDF writes the reified mapping set as is.
	ProfileRDF Profile = "rdf"

	// ProfileOWL additionally turns the graph into an OWL ontology.
	ProfileOWL Profile = "owl"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// ApplyOWLRules indicates whether ApplyOWLRules runs on the reified graph.
	ApplyOWLRules bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileRDF: {
		Name:          ProfileRDF,
		Description:   "Mapping set node plus one owl:Axiom per mapping and its direct triple",
		ApplyOWLRules: false,
	},
	ProfileOWL: {
		Name:          ProfileOWL,
		Description:   "RDF profile retyped as an OWL ontology with annotation properties declared",
		ApplyOWLRules: true,
	},
}

// GetProfileConfig returns the configuration for a profile.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileRDF]
}
