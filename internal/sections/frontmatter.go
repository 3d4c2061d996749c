// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"bytes"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docpress/pkg/types"
)

const fmDelim = "---"

// splitFrontmatter separates a leading YAML frontmatter block from the
// Markdown body. It returns the raw YAML, the body and the byte offset of
// the body within data. Without a closed block the whole input is body.
func splitFrontmatter(data []byte) (fm, body []byte, offset int) {
	if !bytes.HasPrefix(data, []byte(fmDelim+"\n")) && !bytes.HasPrefix(data, []byte(fmDelim+"\r\n")) {
		return nil, data, 0
	}
	start := bytes.IndexByte(data, '\n') + 1

	pos := start
	for pos < len(data) {
		end := bytes.IndexByte(data[pos:], '\n')
		var line []byte
		next := len(data)
		if end < 0 {
			line = data[pos:]
		} else {
			line = data[pos : pos+end]
			next = pos + end + 1
		}
		if string(bytes.TrimRight(line, " \t\r")) == fmDelim {
			return data[start:pos], data[next:], next
		}
		pos = next
	}
	return nil, data, 0
}

// header is the part of section data docpress interprets itself.
type header struct {
	Title   string              `yaml:"title"`
	Version string              `yaml:"version"`
	Pandoc  *types.PandocConfig `yaml:"pandoc"`
}

// decodeData parses a YAML metadata block into the raw data map and the
// interpreted header. An empty block yields nil data.
func decodeData(raw []byte) (map[string]any, header, error) {
	var h header
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, h, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, h, err
	}
	if len(node.Content) == 0 {
		return nil, h, nil
	}
	if node.Content[0].Kind != yaml.MappingNode {
		return nil, h, fmt.Errorf("line %d: metadata must be a mapping", node.Content[0].Line)
	}

	var data map[string]any
	if err := node.Decode(&data); err != nil {
		return nil, h, err
	}
	if err := node.Decode(&h); err != nil {
		return nil, h, err
	}
	if h.Pandoc != nil {
		if err := h.Pandoc.Validate(); err != nil {
			return nil, h, fmt.Errorf("pandoc: %w", err)
		}
	}
	return data, h, nil
}
