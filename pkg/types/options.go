// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Option is one named command-line option. Value is a bool, a string, nil,
// or a list of those.
type Option struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Options is an ordered set of options. It decodes from a YAML mapping and
// keeps the mapping's key order, which decides flag order on the command
// line.
type Options []Option

// UnmarshalYAML decodes a mapping node into ordered options, rejecting
// duplicate keys.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*o = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}

	opts := make(Options, 0, len(node.Content)/2)
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if line, ok := seen[key.Value]; ok {
			return fmt.Errorf("line %d: option %q already defined at line %d", key.Line, key.Value, line)
		}
		seen[key.Value] = key.Line

		var value any
		switch val.Kind {
		case yaml.ScalarNode:
			v, err := scalarValue(val)
			if err != nil {
				return fmt.Errorf("line %d: option %q: %w", val.Line, key.Value, err)
			}
			value = v
		case yaml.SequenceNode:
			items := make([]any, 0, len(val.Content))
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: option %q: list items must be scalars", item.Line, key.Value)
				}
				v, err := scalarValue(item)
				if err != nil {
					return fmt.Errorf("line %d: option %q: %w", item.Line, key.Value, err)
				}
				items = append(items, v)
			}
			value = items
		default:
			return fmt.Errorf("line %d: option %q: nested mappings are not supported", val.Line, key.Value)
		}

		opts = append(opts, Option{Name: key.Value, Value: value})
	}

	*o = opts
	return nil
}

// scalarValue keeps booleans and nulls typed and every other scalar as its
// source text, so "2.0" stays "2.0" instead of becoming a float.
func scalarValue(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!null":
		return nil, nil
	default:
		return n.Value, nil
	}
}

// MarshalYAML encodes the options back into an ordered mapping.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, opt := range o {
		var val yaml.Node
		if err := val.Encode(opt.Value); err != nil {
			return nil, fmt.Errorf("option %q: %w", opt.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Name},
			&val,
		)
	}
	return node, nil
}

// Lookup returns the value of the named option.
func (o Options) Lookup(name string) (any, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return nil, false
}

// Names returns option names in order.
func (o Options) Names() []string {
	names := make([]string, len(o))
	for i, opt := range o {
		names[i] = opt.Name
	}
	return names
}
