package document

import (
	"errors"
	"strings"
)

var (
	// ErrNoTarget is returned when a splice target carries neither a
	// section, an offset range, nor an old-text literal.
	ErrNoTarget = errors.New("splice target is empty")
	// ErrRangeOutOfBounds is returned when an offset range does not fit the
	// document it is applied to.
	ErrRangeOutOfBounds = errors.New("splice range out of bounds")
	// ErrTextNotFound is returned by the literal fallback when the old text
	// does not occur in the document at all.
	ErrTextNotFound = errors.New("old text not found in document")
)

// Target identifies the span a splice should rewrite. The three fields form
// a fallback ladder, consulted in order: a section body, then a raw offset
// range, then a first-occurrence literal match. The first available policy
// is used exclusively.
type Target struct {
	Section  *Section
	Start    int
	End      int
	HasRange bool
	OldText  string
}

// Splice produces a new full document text with only the target's span
// replaced. The target section's header line is never altered by any
// policy. The literal fallback is best effort: if the old text occurs more
// than once, the first occurrence is replaced, which may touch an unrelated
// section.
func Splice(text string, t Target, replacement string) (string, error) {
	switch {
	case t.Section != nil:
		return ReplaceSectionBody(text, *t.Section, replacement)
	case t.HasRange:
		return ReplaceRange(text, t.Start, t.End, replacement)
	case t.OldText != "":
		return ReplaceLiteral(text, t.OldText, replacement)
	}
	return "", ErrNoTarget
}

// ReplaceSectionBody rewrites a section's body while keeping its header line
// byte for byte intact. The header boundary is re-derived from the section's
// raw span rather than trusted from a previous parse: the first line whose
// header title matches the section's title ends the header; if no line
// matches, the first line is treated as the header. The new body is trimmed,
// and a single newline separates it from the remainder of the document when
// content follows.
func ReplaceSectionBody(text string, sec Section, newBody string) (string, error) {
	if sec.Start < 0 || sec.End < sec.Start || sec.End > len(text) {
		return "", ErrRangeOutOfBounds
	}

	span := text[sec.Start:sec.End]
	bodyStart := sec.Start + headerLineEnd(span, sec.Title)
	if bodyStart > sec.End {
		bodyStart = sec.End
	}

	var b strings.Builder
	b.WriteString(text[:bodyStart])
	b.WriteString(strings.TrimSpace(newBody))
	if sec.End < len(text) {
		b.WriteString("\n")
		b.WriteString(text[sec.End:])
	}
	return b.String(), nil
}

// headerLineEnd returns the offset within span just past the header line's
// trailing newline, or len(span) if the header line is the whole span.
func headerLineEnd(span, title string) int {
	offset := 0
	for offset <= len(span) {
		var line string
		next := len(span) + 1
		if nl := strings.IndexByte(span[offset:], '\n'); nl >= 0 {
			line = span[offset : offset+nl]
			next = offset + nl + 1
		} else {
			line = span[offset:]
		}
		if _, t := HeaderLevel(line); t == title {
			if next > len(span) {
				return len(span)
			}
			return next
		}
		offset = next
	}
	// No line matched the title: fall back to the first line.
	if nl := strings.IndexByte(span, '\n'); nl >= 0 {
		return nl + 1
	}
	return len(span)
}

// ReplaceRange replaces text[start:end] with the replacement verbatim.
func ReplaceRange(text string, start, end int, replacement string) (string, error) {
	if start < 0 || end < start || end > len(text) {
		return "", ErrRangeOutOfBounds
	}
	return text[:start] + replacement + text[end:], nil
}

// ReplaceLiteral replaces the first occurrence of old with replacement. It
// errors when old does not occur, so a caller never commits a document it
// believes was changed but was not; if old occurs more than once the match
// may land in the wrong section, which is this policy's accepted risk.
func ReplaceLiteral(text, old, replacement string) (string, error) {
	if !strings.Contains(text, old) {
		return "", ErrTextNotFound
	}
	return strings.Replace(text, old, replacement, 1), nil
}
