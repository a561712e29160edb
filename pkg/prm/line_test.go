package prm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Line
	}{
		{"blank", "   \t", Line{Kind: LineSkip}},
		{"comment", "  # Listing of Parameters", Line{Kind: LineSkip, Text: "# Listing of Parameters"}},
		{"open", "subsection Time stepping  ", Line{Kind: LineOpen, Name: "Time stepping", Text: "subsection Time stepping"}},
		{"close", "  end", Line{Kind: LineClose, Text: "end"}},
		{"assign", "set Final time = 10", Line{Kind: LineAssign, Key: "Final time", Value: "10", Text: "set Final time = 10"}},
		{"assign typed", "set dt = 0.1, double", Line{Kind: LineAssign, Key: "dt", Value: "0.1", Type: "double", Text: "set dt = 0.1, double"}},
		{"assign typed spaced", "set dt=0.1 ,  double", Line{Kind: LineAssign, Key: "dt", Value: "0.1", Type: "double", Text: "set dt=0.1 ,  double"}},
		{"assign empty value", "set Output file =", Line{Kind: LineAssign, Key: "Output file", Value: "", Text: "set Output file ="}},
		{"value with spaces after comma", "set names = a, b c", Line{Kind: LineAssign, Key: "names", Value: "a, b c", Text: "set names = a, b c"}},
		{"unrecognized", "foo bar baz", Line{Kind: LineUnrecognized, Text: "foo bar baz"}},
		{"bare subsection", "subsection", Line{Kind: LineUnrecognized, Text: "subsection"}},
		{"set without equals", "set x 1", Line{Kind: LineUnrecognized, Text: "set x 1"}},
		{"keyword case", "End", Line{Kind: LineUnrecognized, Text: "End"}},
		{"invalid utf-8 in value", "set unit = \xb5m", Line{Kind: LineAssign, Key: "unit", Value: "\uFFFDm", Text: "set unit = \uFFFDm", Repaired: true}},
		{"invalid utf-8 in comment", "# \xff", Line{Kind: LineSkip, Text: "# \uFFFD", Repaired: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "assign", LineAssign.String())
	assert.Equal(t, "unknown", LineKind(42).String())
}
