package simlog

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
)

// Decode reads a YAML simulation log back into a Document, keeping key order.
// A "type: null" written by older generators is treated as no type.
func Decode(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode simlog: %w", err)
	}
	root := &n
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode simlog: line %d: expected mapping at top level", root.Line)
	}

	inputs := lookupNode(root, FieldInputs)
	if inputs == nil {
		return nil, fmt.Errorf("decode simlog: missing %q", FieldInputs)
	}
	if inputs.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("decode simlog: line %d: %q must be a list", inputs.Line, FieldInputs)
	}

	doc := &Document{}
	for _, item := range inputs.Content {
		desc, err := decodeDescriptor(item)
		if err != nil {
			return nil, err
		}
		doc.Inputs = append(doc.Inputs, desc)
	}
	return doc, nil
}

func decodeDescriptor(n *yaml.Node) (*Descriptor, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode simlog: line %d: input descriptor must be a mapping", n.Line)
	}
	desc := &Descriptor{
		Path:           lookupScalar(n, FieldPath),
		EncodingFormat: lookupScalar(n, FieldEncodingFormat),
		Name:           lookupScalar(n, FieldName),
		Description:    lookupScalar(n, FieldDescription),
	}
	if raw := lookupScalar(n, FieldDownload); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("decode simlog: %q: %w", FieldDownload, err)
		}
		desc.Download = v
	}

	params := lookupNode(n, FieldParameters)
	switch {
	case params == nil || params.Tag == "!!null":
		desc.Parameters = ast.NewSection()
	case params.Kind == yaml.MappingNode:
		sec, err := decodeSection(params)
		if err != nil {
			return nil, err
		}
		desc.Parameters = sec
	default:
		return nil, fmt.Errorf("decode simlog: line %d: %q must be a mapping", params.Line, FieldParameters)
	}
	return desc, nil
}

func decodeSection(n *yaml.Node) (*ast.Section, error) {
	sec := ast.NewSection()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch {
		case isLeaf(val):
			sec.SetEntry(key.Value, lookupScalar(val, FieldValue), lookupScalar(val, FieldType))
		case val.Kind == yaml.MappingNode:
			child, err := decodeSection(val)
			if err != nil {
				return nil, err
			}
			sec.Set(key.Value, child)
		case val.Tag == "!!null":
			sec.Set(key.Value, ast.NewSection())
		default:
			return nil, fmt.Errorf("decode simlog: line %d: parameter %q must be a mapping", val.Line, key.Value)
		}
	}
	return sec, nil
}

// isLeaf reports whether n looks like {value: <scalar>[, type: <scalar>]}.
func isLeaf(n *yaml.Node) bool {
	if n.Kind != yaml.MappingNode || len(n.Content) == 0 {
		return false
	}
	hasValue := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return false
		}
		switch key {
		case FieldValue:
			hasValue = true
		case FieldType:
		default:
			return false
		}
	}
	return hasValue
}

func lookupNode(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func lookupScalar(n *yaml.Node, key string) string {
	v := lookupNode(n, key)
	if v == nil || v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
		return ""
	}
	return v.Value
}
