package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// TableWriter writes a commented YAML metadata header followed by a
// delimited table with one row per mapping.
type TableWriter struct {
	format string
	sep    rune
}

// NewTableWriter returns a writer for tsv or csv.
func NewTableWriter(format string) (*TableWriter, error) {
	switch format {
	case FormatTSV, "":
		return &TableWriter{format: FormatTSV, sep: '\t'}, nil
	case FormatCSV:
		return &TableWriter{format: FormatCSV, sep: ','}, nil
	}
	return nil, model.ConfigError("export", "NewTableWriter",
		"unknown table format %q, should be one of tsv or csv", format)
}

// Format returns the output format the writer produces.
func (tw *TableWriter) Format() string {
	return tw.format
}

// Write emits the header and the rows. Columns are the mapping slots that
// carry a value in at least one mapping, in registry order.
func (tw *TableWriter) Write(w io.Writer, doc *model.MappingSetDocument) error {
	bw := bufio.NewWriter(w)

	header, err := MetadataHeader(doc)
	if err != nil {
		return err
	}
	if _, err := bw.WriteString(header); err != nil {
		return err
	}

	columns := Columns(doc.MappingSet.Mappings)
	if len(columns) > 0 {
		cw := csv.NewWriter(bw)
		cw.Comma = tw.sep
		if err := cw.Write(columns); err != nil {
			return err
		}
		fields := model.MappingFields()
		row := make([]string, len(columns))
		for i := range doc.MappingSet.Mappings {
			m := &doc.MappingSet.Mappings[i]
			for j, col := range columns {
				f, _ := fields.Lookup(col)
				row[j], _ = f.Get(m)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Columns returns the mapping slots set in at least one of ms, in registry
// order.
func Columns(ms []model.Mapping) []string {
	var out []string
	for _, f := range model.MappingFields().All() {
		for i := range ms {
			if _, ok := f.Get(&ms[i]); ok {
				out = append(out, f.Name)
				break
			}
		}
	}
	return out
}

// MetadataHeader renders the set metadata and the prefix map as YAML with
// every line commented out. Set fields come first in registry order, then
// extra keys sorted, then curie_map.
func MetadataHeader(doc *model.MappingSetDocument) (string, error) {
	root, err := metadataNode(doc)
	if err != nil {
		return "", err
	}
	if len(root.Content) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, line := range strings.Split(buf.String(), "\n") {
		if line == "" {
			continue
		}
		sb.WriteString("# ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func metadataNode(doc *model.MappingSetDocument) (*yaml.Node, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, value any) error {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return err
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &v)
		return nil
	}

	set := doc.MappingSet
	for _, f := range model.MappingSetFields().All() {
		if v, ok := f.Get(set); ok {
			if err := add(f.Name, v); err != nil {
				return nil, err
			}
		}
	}
	for _, k := range slices.Sorted(maps.Keys(set.Extra)) {
		if k == sssom.SlotCurieMap || model.MappingSetFields().Has(k) {
			continue
		}
		if err := add(k, set.Extra[k]); err != nil {
			return nil, err
		}
	}
	if doc.Prefixes.Len() > 0 {
		if err := add(sssom.SlotCurieMap, doc.Prefixes); err != nil {
			return nil, err
		}
	}
	return root, nil
}
