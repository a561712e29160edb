package prmconfig

// Format names an output encoding.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatProtobuf Format = "pb"
)

// DefaultIndent is the indentation width used when RenderOptions.Indent is zero.
const DefaultIndent = 2

// RenderOptions controls serialization of an assembled document.
type RenderOptions struct {
	Indent int // Spaces per nesting level for text formats
}

// IndentOrDefault returns Indent, falling back to DefaultIndent.
func (o RenderOptions) IndentOrDefault() int {
	if o.Indent <= 0 {
		return DefaultIndent
	}
	return o.Indent
}

// ParseOptions controls reading of a parameter file.
type ParseOptions struct {
	Strict bool // Fail on the first malformed line or unbalanced end instead of warning
}

// AssembleOptions overrides the descriptor labels wrapped around the parsed tree.
// Empty fields keep the defaults.
type AssembleOptions struct {
	Name        string
	Description string
}

// Options bundles everything a Backend needs for one conversion.
type Options struct {
	Parse    ParseOptions
	Assemble AssembleOptions
	Render   RenderOptions
}
