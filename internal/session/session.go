// Package session owns the canonical document text of one drafting session
// and the editing state layered on top of it. All mutation funnels through
// one Session under one mutex, so a streamed delta and a section edit can
// never interleave mid-rewrite: every operation either fully applies its
// text transformation or leaves the document unchanged.
package session

import (
	"errors"
	"sync"
	"time"

	"draftsmith/internal/document"
)

var (
	// ErrNotSelectable marks an attempt to select or edit the title
	// section, a synthetic section, or an out-of-range index.
	ErrNotSelectable = errors.New("section is not selectable")
	// ErrNoSelection is returned when an edit is requested without an
	// active selection.
	ErrNoSelection = errors.New("no section selected")
	// ErrNotEditing is returned when a save or cancel arrives outside edit
	// mode.
	ErrNotEditing = errors.New("no edit in progress")
	// ErrGenerating rejects edit mode while a stream is appending.
	ErrGenerating = errors.New("document generation in progress")
	// ErrNoRewriteTarget is returned when a rewrite cannot be anchored to a
	// section, a span, or an old-text literal.
	ErrNoRewriteTarget = errors.New("no rewrite target available")
)

// Span records a free-text selection: an absolute offset range plus the
// owning section's title. It is a lower-priority splice target, consulted
// only when no section-level target resolves, and it is dropped on any
// document mutation because its offsets cannot survive one.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Session is a single drafting session: the canonical document text, the
// derived section list, the selection state machine and the per-section
// conversation transcripts.
type Session struct {
	mu      sync.Mutex
	id      string
	created time.Time

	text     string
	sections []document.Section

	state    State
	selected int
	snapshot document.Section
	draft    string
	span     *Span

	generating    bool
	conversations map[string][]Turn
}

// New creates an empty session.
func New(id string) *Session {
	return &Session{
		id:            id,
		created:       time.Now().UTC(),
		selected:      -1,
		conversations: make(map[string][]Turn),
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) CreatedAt() time.Time { return s.created }

// Document returns the current full text.
func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Sections returns the most recent parse. The slice is a copy; sections are
// ephemeral and only valid against the text they were parsed from.
func (s *Session) Sections() []document.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]document.Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Generating reports whether a stream is currently appending.
func (s *Session) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// BeginGeneration marks the session as receiving streamed deltas. Edit mode
// is suspended for the duration.
func (s *Session) BeginGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = true
}

// TryBeginGeneration claims the stream slot, returning false if another
// stream already holds it. Check and claim happen under one lock so two
// callers can never both win.
func (s *Session) TryBeginGeneration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	return true
}

// EndGeneration re-enables editing. An aborted stream keeps whatever
// partial text was already appended.
func (s *Session) EndGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
}

// Append adds one streamed delta to the document and re-derives sections.
func (s *Session) Append(delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(s.text + delta)
}

// SetDocument replaces the whole document text.
func (s *Session) SetDocument(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(text)
}

// commit installs text as the new canonical document, reparses and
// revalidates every piece of derived state. Callers hold the mutex.
func (s *Session) commit(text string) {
	s.text = text
	s.sections = document.Parse(text)
	s.span = nil
	s.revalidateSelection()
}
