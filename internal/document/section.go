package document

import (
	"strings"
	"unicode"
)

// Synthetic section titles. The preamble covers content that precedes the
// first header; the contract title is used when the document has no headers
// at all.
const (
	PreambleTitle = "Preamble"
	NoHeaderTitle = "Contract"
)

// Section is a contiguous span of the document starting at a markdown header
// line (or a synthetic start) and extending to the next header or the end of
// the document. Sections are derived: they are recomputed from the full text
// on every parse and never outlive it.
type Section struct {
	Title string `json:"title"`
	Level int    `json:"level"` // 0 = synthetic, 1-6 = markdown header depth
	Body  string `json:"body"`  // between header and next header, blank edges trimmed
	Start int    `json:"start"` // offset of the header line's first character
	End   int    `json:"end"`   // offset just before the next section's header line
	Raw   string `json:"-"`     // text[Start:End] at parse time
}

// HeaderLevel reports the markdown header depth of a line and its title text
// with the '#' markers stripped. It returns (0, "") when the line is not a
// header. A header is, after trimming, 1-6 '#' characters followed by at
// least one whitespace character and non-empty title text. A line that is
// merely bold-wrapped ("**...**") is not a header.
func HeaderLevel(line string) (int, string) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level < 1 || level > 6 || level >= len(trimmed) {
		return 0, ""
	}
	if !unicode.IsSpace(rune(trimmed[level])) {
		return 0, ""
	}
	title := strings.TrimSpace(trimmed[level:])
	if title == "" {
		return 0, ""
	}
	return level, title
}

// Parse splits markdown text into an ordered, flat list of sections with
// stable character offsets. Adjacent sections are contiguous: each section's
// End equals the next section's Start, the first section starts at 0 and the
// last one ends at len(text), so concatenating the raw spans reconstructs
// the input byte for byte.
//
// Header levels are not required to nest; a deeper header after a shallower
// one simply starts a new sibling section. A document without any header
// yields exactly one synthetic section titled "Contract". Empty input yields
// no sections.
func Parse(text string) []Section {
	if text == "" {
		return nil
	}

	var sections []Section
	open := false
	headerSeen := false

	closeOpen := func(end int) {
		s := &sections[len(sections)-1]
		s.End = end
		s.Raw = text[s.Start:end]
		s.Body = bodyAfterHeader(s.Raw)
		open = false
	}

	lineStart := 0
	for lineStart <= len(text) {
		var line string
		next := len(text) + 1
		if nl := strings.IndexByte(text[lineStart:], '\n'); nl >= 0 {
			line = text[lineStart : lineStart+nl]
			next = lineStart + nl + 1
		} else {
			line = text[lineStart:]
		}

		if level, title := HeaderLevel(line); level > 0 {
			if !headerSeen && !open && lineStart > 0 {
				// Leading content before the first header becomes a
				// synthetic preamble section.
				sections = append(sections, Section{
					Title: PreambleTitle,
					Level: 0,
					Body:  trimBlankLines(text[:lineStart]),
					Start: 0,
					End:   lineStart,
					Raw:   text[:lineStart],
				})
			}
			if open {
				closeOpen(lineStart)
			}
			headerSeen = true
			open = true
			sections = append(sections, Section{
				Title: title,
				Level: level,
				Start: lineStart,
			})
		}

		lineStart = next
	}

	if open {
		closeOpen(len(text))
	}

	if !headerSeen {
		return []Section{{
			Title: NoHeaderTitle,
			Level: 0,
			Body:  strings.TrimSpace(text),
			Start: 0,
			End:   len(text),
			Raw:   text,
		}}
	}

	return sections
}

// bodyAfterHeader strips the header line from a section's raw span and trims
// blank lines from both edges of what remains.
func bodyAfterHeader(raw string) string {
	nl := strings.IndexByte(raw, '\n')
	if nl < 0 {
		return ""
	}
	return trimBlankLines(raw[nl+1:])
}

// trimBlankLines removes leading and trailing whitespace-only lines while
// leaving interior lines untouched.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
