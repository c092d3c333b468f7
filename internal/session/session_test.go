package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftsmith/internal/document"
)

const contractDoc = "# Supply Agreement\n\nBetween the parties.\n\n## Payment\n\nNet 30 days.\n\n## Delivery\n\nFOB origin.\n"

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New("test")
	s.SetDocument(contractDoc)
	require.Len(t, s.Sections(), 3)
	return s
}

func TestAppend_GrowsDocumentAndReparses(t *testing.T) {
	s := New("test")
	s.BeginGeneration()
	s.Append("# Supply Agree")
	s.Append("ment\n\nBody ")
	s.Append("text.\n\n## Payment\nNet 30.\n")
	s.EndGeneration()

	assert.Equal(t, "# Supply Agreement\n\nBody text.\n\n## Payment\nNet 30.\n", s.Document())
	sections := s.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "Supply Agreement", sections[0].Title)
	assert.Equal(t, "Payment", sections[1].Title)
}

func TestSelect_TitleSectionIsImmutable(t *testing.T) {
	s := newTestSession(t)
	before := s.Document()

	assert.ErrorIs(t, s.Select(0), ErrNotSelectable)
	assert.ErrorIs(t, s.BeginEdit(), ErrNoSelection)
	assert.Equal(t, before, s.Document())
	assert.Equal(t, Unselected, s.State())
}

func TestSelect_OutOfRange(t *testing.T) {
	s := newTestSession(t)
	assert.ErrorIs(t, s.Select(7), ErrNotSelectable)
	assert.ErrorIs(t, s.Select(-1), ErrNotSelectable)
}

func TestSelect_SyntheticSectionRejected(t *testing.T) {
	s := New("test")
	s.SetDocument("lead-in text\n# Terms\nBody.\n## Scope\nAll of it.\n")
	sections := s.Sections()
	require.Equal(t, document.PreambleTitle, sections[0].Title)

	assert.ErrorIs(t, s.Select(0), ErrNotSelectable)
	assert.NoError(t, s.Select(1))
}

func TestSelectionRevalidation_ShrinkResets(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Select(2))

	s.SetDocument("# Only Section\nNothing else.\n")
	assert.Equal(t, Unselected, s.State())
	_, idx := s.Selection()
	assert.Equal(t, -1, idx)
}

func TestSelectionRevalidation_TracksTitleAcrossMoves(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Select(1)) // Payment

	// Payment moves to a different index; the selection follows the title.
	s.SetDocument("# Supply Agreement\n\n## Warranty\nOne year.\n\n## Payment\n\nNet 30 days.\n")
	snap, idx := s.Selection()
	assert.Equal(t, Selected, s.State())
	assert.Equal(t, 2, idx)
	assert.Equal(t, "Payment", snap.Title)
}

func TestEditLifecycle_SaveSplicesOnlyTargetSection(t *testing.T) {
	s := newTestSession(t)
	before := s.Sections()
	require.NoError(t, s.Select(1)) // Payment
	require.NoError(t, s.BeginEdit())

	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, "Net 30 days.", draft)

	require.NoError(t, s.SaveEdit("Net 45 days from invoice."))
	assert.Equal(t, Selected, s.State())

	after := s.Sections()
	require.Len(t, after, 3)
	assert.Equal(t, before[0].Raw, after[0].Raw)
	assert.Equal(t, before[2].Raw, after[2].Raw)
	assert.Equal(t, "Net 45 days from invoice.", after[1].Body)
}

func TestEditLifecycle_CancelDiscardsDraft(t *testing.T) {
	s := newTestSession(t)
	before := s.Document()
	require.NoError(t, s.Select(1))
	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.UpdateDraft("scratch"))
	require.NoError(t, s.CancelEdit())

	assert.Equal(t, before, s.Document())
	assert.Equal(t, Selected, s.State())
	_, ok := s.Draft()
	assert.False(t, ok)
}

func TestEditLifecycle_RejectedWhileGenerating(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Select(1))
	s.BeginGeneration()
	assert.ErrorIs(t, s.BeginEdit(), ErrGenerating)
	s.EndGeneration()
	assert.NoError(t, s.BeginEdit())
}

func TestTryBeginGeneration_SingleWinner(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.TryBeginGeneration())
	assert.False(t, s.TryBeginGeneration())
	s.EndGeneration()
	assert.True(t, s.TryBeginGeneration())
}

func TestEditLifecycle_SaveWithoutEdit(t *testing.T) {
	s := newTestSession(t)
	assert.ErrorIs(t, s.SaveEdit("x"), ErrNotEditing)
	assert.ErrorIs(t, s.CancelEdit(), ErrNotEditing)
}

func TestApplyRewrite_SectionTarget(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.ApplyRewrite("Delivery", "", "Delivered duty paid, Hamburg."))

	sections := s.Sections()
	assert.Equal(t, "Delivered duty paid, Hamburg.", sections[2].Body)
	assert.Equal(t, "Net 30 days.", sections[1].Body)
}

func TestApplyRewrite_SpanFallback(t *testing.T) {
	s := newTestSession(t)
	doc := s.Document()
	start := strings.Index(doc, "Net 30 days.")
	require.GreaterOrEqual(t, start, 0)
	end := start + len("Net 30 days.")
	require.NoError(t, s.SetSpan(start, end, "Net 30 days."))

	span, ok := s.ActiveSpan()
	require.True(t, ok)
	assert.Equal(t, "Payment", span.Title)

	require.NoError(t, s.ApplyRewrite("No Such Section", "", "Net 60 days."))
	assert.Equal(t, "Net 60 days.", s.Sections()[1].Body)

	// The span does not survive the mutation it drove.
	_, ok = s.ActiveSpan()
	assert.False(t, ok)
}

func TestApplyRewrite_LiteralFallback(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.ApplyRewrite("", "FOB origin.", "CIF destination."))
	assert.Equal(t, "CIF destination.", s.Sections()[2].Body)

	err := s.ApplyRewrite("", "not in the document", "x")
	assert.ErrorIs(t, err, document.ErrTextNotFound)

	assert.ErrorIs(t, s.ApplyRewrite("", "", "x"), ErrNoRewriteTarget)
}

func TestConversation_TopicsAndSentinel(t *testing.T) {
	s := newTestSession(t)
	s.AddTurn("Payment", RoleUser, "make it net 45")
	s.AddTurn("Payment", RoleAssistant, "done")
	s.AddTurn("", RoleUser, "what governs disputes?")

	payment := s.Conversation("Payment")
	require.Len(t, payment, 2)
	assert.Equal(t, RoleUser, payment[0].Role)

	general := s.Conversation(GeneralTopic)
	require.Len(t, general, 1)
	assert.ElementsMatch(t, []string{"Payment", GeneralTopic}, s.Topics())
}

func TestManager(t *testing.T) {
	m := NewManager()
	s := m.Create()
	assert.NotEmpty(t, s.ID())

	got, ok := m.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Count())

	m.Remove(s.ID())
	_, ok = m.Get(s.ID())
	assert.False(t, ok)
}
