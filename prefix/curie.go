package prefix

import "strings"

// Contract turns a full IRI into prefix:local using the first namespace in
// m that the IRI starts with. IRIs matching no namespace come back unchanged.
func Contract(iri string, m *Map) string {
	for p, ns := range m.All() {
		if ns == "" {
			continue
		}
		if strings.HasPrefix(iri, ns) {
			return p + ":" + strings.TrimPrefix(iri, ns)
		}
	}
	return iri
}

// Expand resolves prefix:local against m. Values that are already IRIs, or
// whose prefix is unknown, are returned unchanged with ok false.
func Expand(curie string, m *Map) (string, bool) {
	if IsIRI(curie) {
		return curie, false
	}
	p, local, found := strings.Cut(curie, ":")
	if !found {
		return curie, false
	}
	ns, ok := m.Get(p)
	if !ok {
		return curie, false
	}
	return ns + local, true
}

// IsIRI reports whether s looks like an absolute IRI rather than a CURIE.
func IsIRI(s string) bool {
	scheme, rest, found := strings.Cut(s, ":")
	if !found || scheme == "" {
		return false
	}
	if strings.HasPrefix(rest, "//") {
		return true
	}
	return scheme == "urn" || scheme == "mailto"
}
