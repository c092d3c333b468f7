// Package export classifies document lines for rendering boundaries (HTML
// preview, PDF collaborators). It reuses the section parser's header
// predicate so the editable view and the exported artifact can never
// disagree about what a header is.
package export

import (
	"strings"

	"draftsmith/internal/document"
)

// LineKind is the block-level classification of one document line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineHeading
	LineRule
	LineOrdered
	LineUnordered
	LineParagraph
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineHeading:
		return "heading"
	case LineRule:
		return "rule"
	case LineOrdered:
		return "ordered"
	case LineUnordered:
		return "unordered"
	default:
		return "paragraph"
	}
}

// Line is one classified document line.
type Line struct {
	Kind LineKind `json:"kind"`
	// Level is the header depth for LineHeading lines.
	Level int `json:"level,omitempty"`
	// Depth is the nesting depth for list lines (0 = top level).
	Depth int `json:"depth,omitempty"`
	// Text is the line content with block markers stripped.
	Text string `json:"text"`
	// BoldHeading marks a paragraph line that is entirely bold-wrapped.
	// The section parser never treats these as headers; the export path
	// renders them as display headings.
	BoldHeading bool `json:"bold_heading,omitempty"`
}

// ClassifyLine classifies a single line. Header detection delegates to the
// section parser's rule, so the two stay in lockstep by construction.
func ClassifyLine(line string) Line {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Line{Kind: LineBlank}
	}

	if level, title := document.HeaderLevel(line); level > 0 {
		return Line{Kind: LineHeading, Level: level, Text: title}
	}

	if isHorizontalRule(trimmed) {
		return Line{Kind: LineRule}
	}

	depth := listDepth(line)
	if text, ok := unorderedItem(trimmed); ok {
		return Line{Kind: LineUnordered, Depth: depth, Text: text}
	}
	if text, ok := orderedItem(trimmed); ok {
		return Line{Kind: LineOrdered, Depth: depth, Text: text}
	}

	return Line{
		Kind:        LineParagraph,
		Text:        trimmed,
		BoldHeading: isBoldWrapped(trimmed),
	}
}

// ClassifyDocument classifies every line of a document in order.
func ClassifyDocument(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, l := range raw {
		lines[i] = ClassifyLine(l)
	}
	return lines
}

// isHorizontalRule reports whether a trimmed line is three or more of the
// same rule character, optionally space-separated.
func isHorizontalRule(trimmed string) bool {
	var ruleChar byte
	count := 0
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if c != '-' && c != '*' && c != '_' {
			return false
		}
		if ruleChar == 0 {
			ruleChar = c
		} else if c != ruleChar {
			return false
		}
		count++
	}
	return count >= 3
}

func unorderedItem(trimmed string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}

func orderedItem(trimmed string) (string, bool) {
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(trimmed) {
		return "", false
	}
	if trimmed[i] != '.' && trimmed[i] != ')' {
		return "", false
	}
	rest := trimmed[i+1:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// listDepth derives nesting depth from leading indentation, two columns per
// level, tabs counting as one level.
func listDepth(line string) int {
	cols := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			cols++
		case '\t':
			cols += 2
		default:
			return cols / 2
		}
	}
	return 0
}

// isBoldWrapped reports whether the whole trimmed line is a single
// "**...**" span with non-empty content.
func isBoldWrapped(trimmed string) bool {
	if len(trimmed) < 5 || !strings.HasPrefix(trimmed, "**") || !strings.HasSuffix(trimmed, "**") {
		return false
	}
	inner := trimmed[2 : len(trimmed)-2]
	return inner != "" && !strings.Contains(inner, "**")
}

// Span is one run of inline text, bold or plain.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// BoldSpans splits inline text into bold and plain runs. An unterminated
// "**" is kept as literal text.
func BoldSpans(text string) []Span {
	var spans []Span
	rest := text
	for rest != "" {
		open := strings.Index(rest, "**")
		if open < 0 {
			spans = append(spans, Span{Text: rest})
			break
		}
		end := strings.Index(rest[open+2:], "**")
		if end < 0 {
			spans = append(spans, Span{Text: rest})
			break
		}
		if open > 0 {
			spans = append(spans, Span{Text: rest[:open]})
		}
		spans = append(spans, Span{Text: rest[open+2 : open+2+end], Bold: true})
		rest = rest[open+4+end:]
	}
	return spans
}
