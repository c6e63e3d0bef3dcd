package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/c360studio/semmap/model"
)

// Table formats.
const (
	FormatTSV = "tsv"
	FormatCSV = "csv"
)

// TableParser reads delimited tables with a commented YAML header.
type TableParser struct {
	format string
}

// NewTableParser returns a parser for tsv or csv. An empty format infers
// the delimiter from the file name.
func NewTableParser(format string) *TableParser {
	return &TableParser{format: format}
}

// Format returns the format name the parser is registered under.
func (p *TableParser) Format() string {
	return p.format
}

// Separator picks the delimiter for a table: an explicit serialisation
// wins, then the file extension. Anything else falls back to tab with a
// warning.
func Separator(serialisation, filename string, logger *slog.Logger) (rune, error) {
	switch serialisation {
	case FormatTSV:
		return '\t', nil
	case FormatCSV:
		return ',', nil
	case "":
	default:
		return 0, model.ConfigError("parser", "Separator", "unknown table serialisation %q", serialisation)
	}

	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".") {
	case FormatTSV:
		return '\t', nil
	case FormatCSV:
		return ',', nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("Cannot determine table format, trying tsv", slog.String("file", filename))
	return '\t', nil
}

// Parse reads a table into a mapping set document.
//
// Header metadata is only read when the caller passed none. A curie_map in
// the metadata overrides the caller's prefixes.
func (p *TableParser) Parse(r io.Reader, opts Options) (*model.MappingSetDocument, error) {
	log := opts.logger()

	ser := opts.Serialisation
	if ser == "" {
		ser = p.format
	}
	sep, err := Separator(ser, opts.Filename, log)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	meta := opts.Metadata
	if meta == nil {
		meta, err = ReadMetadata(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	}

	candidate := opts.Prefixes
	headerMap, found, err := metadataPrefixes(meta)
	if err != nil {
		return nil, err
	}
	if found {
		log.Info("Metadata provides its own curie_map, caller prefixes are disregarded", slog.String("file", opts.Filename))
		candidate = headerMap
	}
	prefixes, err := opts.resolvePrefixes(candidate, "parser.TableParser")
	if err != nil {
		return nil, err
	}

	set, err := readRows(data, sep, opts)
	if err != nil {
		return nil, err
	}
	return finish(set, prefixes, meta)
}

func readRows(data []byte, sep rune, opts Options) (*model.MappingSet, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sep
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	set := model.NewMappingSet()
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return set, nil
	}
	if err != nil {
		return nil, model.WrapFormat(err, "parser.TableParser", "Parse")
	}

	mappingFields := model.MappingFields()
	setFields := model.MappingSetFields()
	unknown := unknownNames{}
	setColumns := make(map[string]*columnValue)
	rows := 0

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.WrapFormat(err, "parser.TableParser", "Parse")
		}

		line, _ := cr.FieldPos(0)
		var m model.Mapping
		for i, col := range header {
			col = strings.TrimSpace(col)
			known := false
			val := ""
			if i < len(record) {
				val = record[i]
			}
			if f, ok := mappingFields.Lookup(col); ok {
				known = true
				if val != "" {
					if err := f.Set(&m, val); err != nil {
						return nil, model.FormatError("parser.TableParser", "Parse", "line %d: %v", line, err)
					}
				}
			}
			if _, ok := setFields.Lookup(col); ok {
				known = true
				cv, seen := setColumns[col]
				if !seen {
					cv = &columnValue{value: val, uniform: rows == 0}
					setColumns[col] = cv
				}
				cv.observe(val)
			}
			if !known {
				unknown.add(col)
			}
		}
		rows++
		add(set, m)
	}

	// A set slot given as a column is promoted to the set only when every
	// row carries the same value.
	for _, col := range slices.Sorted(maps.Keys(setColumns)) {
		cv := setColumns[col]
		if !cv.uniform || cv.value == "" {
			continue
		}
		f, _ := setFields.Lookup(col)
		if err := f.Set(set, cv.value); err != nil {
			return nil, model.FormatError("parser.TableParser", "Parse", "column %s: %v", col, err)
		}
	}

	unknown.report(opts)
	return set, nil
}

// columnValue tracks whether a column holds one value in every row.
type columnValue struct {
	value   string
	uniform bool
}

func (c *columnValue) observe(val string) {
	if val != c.value {
		c.uniform = false
	}
}
