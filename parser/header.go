package parser

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
	"github.com/c360studio/semmap/vocabulary/sssom"
)

// CommentMarker starts every metadata header line of a table.
const CommentMarker = "#"

// ReadMetadata collects the leading comment lines of r, strips one marker
// from each and decodes the block as YAML. Reading stops at the first line
// that is not a comment. A table without header yields empty metadata.
//
// A curie_map entry is decoded into an ordered *prefix.Map.
func ReadMetadata(r io.Reader) (model.Metadata, error) {
	block, err := headerBlock(r)
	if err != nil {
		return nil, model.WrapFormat(err, "parser", "ReadMetadata")
	}
	return decodeMetadata(block)
}

func headerBlock(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	var sb strings.Builder
	for {
		line, err := br.ReadString('\n')
		if strings.HasPrefix(line, CommentMarker) {
			sb.WriteString(strings.TrimPrefix(line, CommentMarker))
		} else {
			return sb.String(), nil
		}
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func decodeMetadata(block string) (model.Metadata, error) {
	meta := model.Metadata{}
	if strings.TrimSpace(block) == "" {
		return meta, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, model.WrapFormat(err, "parser", "ReadMetadata")
	}
	if len(doc.Content) == 0 {
		return meta, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return meta, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, model.FormatError("parser", "ReadMetadata", "metadata header is not a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		val := root.Content[i+1]
		if key == sssom.SlotCurieMap {
			m := prefix.NewMap()
			if err := val.Decode(m); err != nil {
				return nil, model.WrapFormat(err, "parser", "ReadMetadata")
			}
			meta[key] = m
			continue
		}
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, model.WrapFormat(err, "parser", "ReadMetadata")
		}
		meta[key] = v
	}
	return meta, nil
}

// metadataPrefixes extracts the curie_map of meta, if any.
func metadataPrefixes(meta model.Metadata) (*prefix.Map, bool, error) {
	raw, ok := meta[sssom.SlotCurieMap]
	if !ok {
		return nil, false, nil
	}
	m, err := prefix.FromAny(raw)
	if err != nil {
		return nil, true, model.FormatError("parser", "metadataPrefixes", "curie_map: %v", err)
	}
	return m, true, nil
}
