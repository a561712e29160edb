// Package simlog assembles a parsed parameter tree into the simulation log
// document: a single "inputs" list holding one descriptor of the parameter file.
package simlog

import (
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
)

// Field names of the serialized document, in output order.
const (
	FieldInputs         = "inputs"
	FieldPath           = "path"
	FieldEncodingFormat = "encodingFormat"
	FieldName           = "name"
	FieldDescription    = "description"
	FieldDownload       = "download"
	FieldParameters     = "parameters"
	FieldValue          = "value"
	FieldType           = "type"
)

const (
	EncodingFormat     = "text"
	DefaultName        = "parameters.prm"
	DefaultDescription = "Parameter file required to run simulation"
)

// Descriptor describes one input file and carries its parameter tree.
type Descriptor struct {
	Path           string
	EncodingFormat string
	Name           string
	Description    string
	Download       bool
	Parameters     *ast.Section
}

// Document is the top level record; Inputs always has exactly one element
// when built by New.
type Document struct {
	Inputs []*Descriptor
}

// New wraps root in a descriptor for path.
func New(root *ast.Section, path string, opts prmconfig.AssembleOptions) *Document {
	if root == nil {
		root = ast.NewSection()
	}
	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	description := opts.Description
	if description == "" {
		description = DefaultDescription
	}
	return &Document{
		Inputs: []*Descriptor{{
			Path:           path,
			EncodingFormat: EncodingFormat,
			Name:           name,
			Description:    description,
			Download:       false,
			Parameters:     root,
		}},
	}
}

// Parameters returns the tree of the first descriptor, or nil.
func (d *Document) Parameters() *ast.Section {
	if d == nil || len(d.Inputs) == 0 || d.Inputs[0] == nil {
		return nil
	}
	return d.Inputs[0].Parameters
}
