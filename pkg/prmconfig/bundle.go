package prmconfig

import (
	"fmt"
	"time"
)

// DiagnosticKind classifies a non-fatal anomaly found while parsing.
type DiagnosticKind string

const (
	DiagnosticMalformedLine     DiagnosticKind = "malformed_line"
	DiagnosticUnbalancedSection DiagnosticKind = "unbalanced_section"
	DiagnosticUnclosedSection   DiagnosticKind = "unclosed_section"
	DiagnosticInvalidEncoding   DiagnosticKind = "invalid_encoding"
)

// Diagnostic describes a line the parser recovered from.
type Diagnostic struct {
	Kind DiagnosticKind
	Line int    // 1-based line number, 0 when not tied to a line
	Text string // Offending line, trimmed and with invalid UTF-8 replaced
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagnosticMalformedLine:
		return fmt.Sprintf("line %d: unmatched line: %s", d.Line, d.Text)
	case DiagnosticUnbalancedSection:
		return fmt.Sprintf("line %d: end without open subsection", d.Line)
	case DiagnosticInvalidEncoding:
		return fmt.Sprintf("line %d: invalid UTF-8 replaced by U+FFFD: %s", d.Line, d.Text)
	case DiagnosticUnclosedSection:
		return fmt.Sprintf("subsection %q not closed before end of input", d.Text)
	default:
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Text)
	}
}

// Metadata stores information about how and when the output was generated.
type Metadata struct {
	Format    Format            // Output encoding
	Backend   string            // Backend name that generated this bundle
	Source    string            // Input path recorded in the document
	Generated time.Time         // Timestamp when the bundle was created
	Custom    map[string]string // Extensible metadata
}

// Bundle represents the complete output of a conversion: the serialized
// document plus everything the parser had to recover from.
type Bundle struct {
	Content     []byte
	Diagnostics []Diagnostic
	Metadata    Metadata
}

// NewBundle creates an empty Bundle with initialized metadata.
// The Generated timestamp is set to the current time.
func NewBundle(format Format, backend string) *Bundle {
	return &Bundle{
		Metadata: Metadata{
			Format:    format,
			Backend:   backend,
			Generated: time.Now(),
			Custom:    make(map[string]string),
		},
	}
}
