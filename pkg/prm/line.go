package prm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// LineKind classifies one raw line of a parameter file.
type LineKind int

const (
	// LineSkip is a blank line or a comment.
	LineSkip LineKind = iota
	// LineOpen is "subsection <name>".
	LineOpen
	// LineClose is "end".
	LineClose
	// LineAssign is "set <key> = <value>[, <type>]".
	LineAssign
	// LineUnrecognized 是无法识别的行。
	LineUnrecognized
)

func (k LineKind) String() string {
	switch k {
	case LineSkip:
		return "skip"
	case LineOpen:
		return "open"
	case LineClose:
		return "close"
	case LineAssign:
		return "assign"
	case LineUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// CommentPrefix starts a comment line.
const CommentPrefix = "#"

// Line is the result of Classify. Only the fields relevant to Kind are set.
type Line struct {
	Kind LineKind
	// Name of the subsection for LineOpen.
	Name string
	// Key, Value and Type for LineAssign. Type is empty when absent.
	Key   string
	Value string
	Type  string
	// Text is the trimmed line, kept for diagnostics.
	Text string
	// Repaired is set when invalid UTF-8 in the raw line was replaced by U+FFFD.
	Repaired bool
}

var (
	subsectionPattern = regexp.MustCompile(`^subsection\s+(.+)$`)
	// value 非贪婪匹配，最后一个 ", token" 作为类型。
	setPattern = regexp.MustCompile(`^set\s+(.+?)\s*=\s*(.*?)(?:\s*,\s*(\S+))?$`)
)

// Classify trims raw and decides what kind of line it is. Invalid UTF-8 is
// replaced by U+FFFD first and the line is marked Repaired.
func Classify(raw string) Line {
	line := classify(raw)
	if !utf8.ValidString(raw) {
		line.Repaired = true
	}
	return line
}

func classify(raw string) Line {
	text := strings.TrimSpace(strings.ToValidUTF8(raw, "\uFFFD"))
	if text == "" || strings.HasPrefix(text, CommentPrefix) {
		return Line{Kind: LineSkip, Text: text}
	}
	if m := subsectionPattern.FindStringSubmatch(text); m != nil {
		return Line{Kind: LineOpen, Name: strings.TrimSpace(m[1]), Text: text}
	}
	if text == "end" {
		return Line{Kind: LineClose, Text: text}
	}
	if m := setPattern.FindStringSubmatch(text); m != nil {
		return Line{
			Kind:  LineAssign,
			Key:   strings.TrimSpace(m[1]),
			Value: strings.TrimSpace(m[2]),
			Type:  strings.TrimSpace(m[3]),
			Text:  text,
		}
	}
	return Line{Kind: LineUnrecognized, Text: text}
}
