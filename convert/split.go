package convert

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/c360studio/semmap/export"
	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9_\-]+`)

// SplitKey names the group of a mapping: subject prefix, predicate local
// name and object prefix, lowercased and joined by underscores. Runs of
// characters outside [a-z0-9_-] collapse to one underscore, so the key is
// always a plain file name.
func SplitKey(m model.Mapping) string {
	rel := m.PredicateID
	if prefix.IsIRI(rel) {
		if i := strings.LastIndexAny(rel, "#/"); i >= 0 && i < len(rel)-1 {
			rel = rel[i+1:]
		}
	} else if _, local, found := strings.Cut(rel, ":"); found {
		rel = local
	}
	key := strings.ToLower(curiePrefix(m.SubjectID) + "_" + rel + "_" + curiePrefix(m.ObjectID))
	return unsafeKeyChars.ReplaceAllString(key, "_")
}

func curiePrefix(id string) string {
	p, _, found := strings.Cut(id, ":")
	if !found {
		return id
	}
	return p
}

// Split partitions doc by SplitKey. Every part keeps the set metadata and a
// copy of the prefix map; mappings keep their order.
func Split(doc *model.MappingSetDocument) map[string]*model.MappingSetDocument {
	parts := make(map[string]*model.MappingSetDocument)
	for _, m := range doc.MappingSet.Mappings {
		key := SplitKey(m)
		part, ok := parts[key]
		if !ok {
			set := *doc.MappingSet
			set.Mappings = []model.Mapping{}
			set.Extra = maps.Clone(doc.MappingSet.Extra)
			part = model.NewDocument(&set, doc.Prefixes.Clone())
			parts[key] = part
		}
		part.MappingSet.Add(m)
	}
	return parts
}

// WriteTables writes every part as <key>.sssom.tsv below dir and returns
// the paths in key order.
func (c *Converter) WriteTables(parts map[string]*model.MappingSetDocument, dir string) ([]string, error) {
	tw, err := export.NewTableWriter(export.FormatTSV)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, key := range slices.Sorted(maps.Keys(parts)) {
		path := filepath.Join(dir, key+".sssom.tsv")
		if rel, err := filepath.Rel(dir, path); err != nil || rel != filepath.Base(path) {
			return paths, model.ConfigError("convert", "WriteTables", "split key %q escapes %s", key, dir)
		}
		if err := writeFile(path, func(w io.Writer) error { return tw.Write(w, parts[key]) }); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		c.logger.Info("Writing split table complete",
			slog.String("path", path),
			slog.Int("mappings", len(parts[key].MappingSet.Mappings)))
		paths = append(paths, path)
	}
	return paths, nil
}
