package session

import (
	"draftsmith/internal/document"
)

// State is the selection lifecycle of a session.
type State int

const (
	// Unselected means no section is active.
	Unselected State = iota
	// Selected means a section snapshot is held for targeting.
	Selected
	// Editing means a draft body exists for the selected section.
	Editing
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Editing:
		return "editing"
	default:
		return "unselected"
	}
}

// State returns the current selection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Selection returns the selected section's snapshot and its index in the
// current parse, or (-1, zero) when nothing is selected.
func (s *Session) Selection() (document.Section, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Unselected {
		return document.Section{}, -1
	}
	return s.snapshot, s.selected
}

// Draft returns the in-progress edit body, if any.
func (s *Session) Draft() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return "", false
	}
	return s.draft, true
}

// Select activates a section by index. The first section (the document
// title, or any synthetic section) is never selectable; attempts are
// rejected without touching state.
func (s *Session) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index <= 0 || index >= len(s.sections) {
		return ErrNotSelectable
	}
	if s.sections[index].Level == 0 {
		return ErrNotSelectable
	}
	s.state = Selected
	s.selected = index
	s.snapshot = s.sections[index]
	s.draft = ""
	return nil
}

// ClearSelection drops the selection and any draft.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// BeginEdit enters edit mode on the selected section, seeding the draft
// from the freshest parse rather than the selection-time snapshot.
func (s *Session) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return ErrGenerating
	}
	if s.state != Selected {
		return ErrNoSelection
	}
	s.state = Editing
	s.draft = s.snapshot.Body
	return nil
}

// UpdateDraft records in-progress edit text without touching the document.
func (s *Session) UpdateDraft(body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return ErrNotEditing
	}
	s.draft = body
	return nil
}

// SaveEdit commits the draft body through the splice engine and returns to
// the Selected state, re-validated against the fresh parse by title.
func (s *Session) SaveEdit(body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return ErrNotEditing
	}

	// Re-resolve the target in the current parse by title; offsets captured
	// before the edit began are never reused.
	idx := s.findByTitle(s.snapshot.Title)
	if idx <= 0 {
		s.reset()
		return ErrNoSelection
	}
	sec := s.sections[idx]
	out, err := document.ReplaceSectionBody(s.text, sec, body)
	if err != nil {
		return err
	}

	s.state = Selected
	s.draft = ""
	s.commit(out)
	return nil
}

// CancelEdit discards the draft without mutating the document.
func (s *Session) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Editing {
		return ErrNotEditing
	}
	s.state = Selected
	s.draft = ""
	return nil
}

// SetSpan records a free-text span target. The owning section's title is
// kept so conversations about the span land under that section.
func (s *Session) SetSpan(start, end int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if start < 0 || end < start || end > len(s.text) {
		return document.ErrRangeOutOfBounds
	}
	title := ""
	for _, sec := range s.sections {
		if start >= sec.Start && start < sec.End {
			title = sec.Title
			break
		}
	}
	s.span = &Span{Start: start, End: end, Title: title, Text: text}
	return nil
}

// ClearSpan drops the span target.
func (s *Session) ClearSpan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.span = nil
}

// ActiveSpan returns the recorded span, if one survives.
func (s *Session) ActiveSpan() (Span, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.span == nil {
		return Span{}, false
	}
	return *s.span, true
}

// SectionByTitle returns the first section whose title matches, skipping
// the unselectable first section.
func (s *Session) SectionByTitle(title string) (document.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.findByTitle(title)
	if idx <= 0 {
		return document.Section{}, false
	}
	return s.sections[idx], true
}

// ApplyRewrite splices a replacement produced by the assistant into the
// document. Targets are resolved through the fallback ladder: the titled
// section against the fresh parse, then the recorded span, then a literal
// match of oldText.
func (s *Session) ApplyRewrite(title, oldText, replacement string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target document.Target
	if idx := s.findByTitle(title); idx > 0 {
		sec := s.sections[idx]
		target.Section = &sec
	} else if s.span != nil {
		target.Start = s.span.Start
		target.End = s.span.End
		target.HasRange = true
	} else if oldText != "" {
		target.OldText = oldText
	} else {
		return ErrNoRewriteTarget
	}

	out, err := document.Splice(s.text, target, replacement)
	if err != nil {
		return err
	}
	s.commit(out)
	return nil
}

// findByTitle locates a section by exact title. Index 0 is returned only
// when the matching section is the first one, which callers treat as not
// targetable. Callers hold the mutex.
func (s *Session) findByTitle(title string) int {
	if title == "" {
		return -1
	}
	for i := range s.sections {
		if s.sections[i].Title == title {
			return i
		}
	}
	return -1
}

// revalidateSelection re-anchors the selection against a fresh parse: same
// index when the title still matches, otherwise the first section with the
// snapshot's title, otherwise the selection self-heals to Unselected.
// Callers hold the mutex.
func (s *Session) revalidateSelection() {
	if s.state == Unselected {
		return
	}
	if s.selected > 0 && s.selected < len(s.sections) && s.sections[s.selected].Title == s.snapshot.Title {
		s.snapshot = s.sections[s.selected]
		return
	}
	if idx := s.findByTitle(s.snapshot.Title); idx > 0 {
		s.selected = idx
		s.snapshot = s.sections[idx]
		return
	}
	s.reset()
}

// reset returns the session to Unselected. Callers hold the mutex.
func (s *Session) reset() {
	s.state = Unselected
	s.selected = -1
	s.snapshot = document.Section{}
	s.draft = ""
}
