// Package suite loads YAML check suites and compiles them into
// assertion programs over JSON documents.
package suite

import (
	"errors"
	"fmt"
	"io"
	"strings"

	yaml "github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
)

// ErrParse is the sentinel error for all suite parsing failures.
var ErrParse = errors.New("suite parse error")

// Case pairs one JSON document with the checks that must hold on it.
// Exactly one of Document (inline JSON) and DocumentFile (path relative
// to the suite file) provides the document.
type Case struct {
	Name         string  `yaml:"name"`
	Document     string  `yaml:"document,omitempty"`
	DocumentFile string  `yaml:"document_file,omitempty"`
	Checks       []Check `yaml:"checks"`
}

// Check constrains one value inside the document. Exactly one of Path
// (an exact address like user.tags[0]) and Query (a JSONPath expression)
// selects the value; the remaining keys form the predicate.
type Check struct {
	Path      string
	Query     string
	Predicate Predicate
}

// Predicate is the op/value pair of a check.
type Predicate struct {
	Operation string
	Value     any
	HasValue  bool
}

// UnmarshalYAML separates the selector key from the predicate keys, so
// checks read flat in YAML:
//
//	- path: user.name
//	  op: equals
//	  value: Alice
func (c *Check) UnmarshalYAML(node ast.Node) error {
	mapNode, ok := node.(*ast.MappingNode)
	if !ok {
		return fmt.Errorf("%w: check must be a mapping", ErrParse)
	}

	var predNode *ast.MappingNode
	for _, valNode := range mapNode.Values {
		keyNode, ok := valNode.Key.(*ast.StringNode)
		if !ok {
			return fmt.Errorf("%w: check key must be a string", ErrParse)
		}

		switch keyNode.Value {
		case "path":
			value, ok := valNode.Value.(*ast.StringNode)
			if !ok {
				return fmt.Errorf("%w: check path must be a string", ErrParse)
			}
			c.Path = value.Value
		case "query":
			value, ok := valNode.Value.(*ast.StringNode)
			if !ok {
				return fmt.Errorf("%w: check query must be a string", ErrParse)
			}
			c.Query = value.Value
		default:
			if predNode == nil {
				predNode = &ast.MappingNode{}
			}
			predNode.Values = append(predNode.Values, valNode)
		}
	}

	if predNode == nil {
		return fmt.Errorf("%w: check must specify an op", ErrParse)
	}

	if err := c.Predicate.UnmarshalYAML(predNode); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	return nil
}

// UnmarshalYAML decodes a predicate from YAML.
// Predicate syntax is strict and only supports:
//
//	op: <operator>
//	value: <any>   # optional only for "exists"
func (p *Predicate) UnmarshalYAML(node ast.Node) error {
	mapNode, ok := node.(*ast.MappingNode)
	if !ok {
		return errors.New("predicate must be a mapping")
	}
	if len(mapNode.Values) == 0 {
		return errors.New("predicate mapping is empty")
	}

	for _, valNode := range mapNode.Values {
		key, ok := valNode.Key.(*ast.StringNode)
		if !ok {
			return errors.New("predicate key must be a string")
		}

		switch key.Value {
		case "op":
			opNode, ok := valNode.Value.(*ast.StringNode)
			if !ok {
				return errors.New("op value must be a string")
			}
			op := strings.TrimSpace(opNode.Value)
			if op == "" {
				return errors.New("op value must not be empty")
			}
			p.Operation = op
		case "value":
			value, err := nodeToValue(valNode.Value)
			if err != nil {
				return fmt.Errorf("failed to parse value: %w", err)
			}
			p.Value = value
			p.HasValue = true
		default:
			return fmt.Errorf("unsupported check key %q: use 'path' or 'query' plus 'op' and optional 'value'", key.Value)
		}
	}

	if p.Operation == "" {
		return errors.New("predicate must specify an op")
	}

	return nil
}

// nodeToValue extracts values from AST nodes.
// integer node value is normalized to int64
// float node value is always float64
func nodeToValue(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		if n.Value == nil {
			return nil, errors.New("integer node has nil value")
		}
		if v, ok := n.Value.(int64); ok {
			return v, nil
		}
		if v, ok := n.Value.(uint64); ok {
			return int64(v), nil
		}
		return nil, fmt.Errorf("unexpected integer node value type: %T", n.Value)
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.NullNode:
		return nil, nil
	case *ast.SequenceNode:
		var result []any
		for i, item := range n.Values {
			val, err := nodeToValue(item)
			if err != nil {
				return nil, fmt.Errorf("invalid value at index %d: %w", i, err)
			}
			result = append(result, val)
		}
		return result, nil
	case *ast.MappingNode:
		result := make(map[string]any, len(n.Values))
		for _, entry := range n.Values {
			key, ok := entry.Key.(*ast.StringNode)
			if !ok {
				return nil, fmt.Errorf("mapping key must be a string, got %T", entry.Key)
			}
			val, err := nodeToValue(entry.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid value for key %q: %w", key.Value, err)
			}
			result[key.Value] = val
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported node type: %T", node)
	}
}

// Parse decodes a YAML stream of cases.
func Parse(r io.Reader) ([]Case, error) {
	decoder := yaml.NewDecoder(r)
	var cases []Case

	if err := decoder.Decode(&cases); err != nil {
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrParse, err)
	}

	return cases, nil
}
