package storage

import (
	"context"
	"path/filepath"
	"testing"

	"draftsmith/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "draftsmith_test.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestSaveTurnAndTranscript(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveTurn(ctx, "s1", "Payment Terms", session.Turn{
		Role:    session.RoleUser,
		Content: "Shorten the notice period.",
	})
	require.NoError(t, err)

	err = store.SaveTurn(ctx, "s1", "Payment Terms", session.Turn{
		Role:    session.RoleAssistant,
		Content: "Done, notice period is now 15 days.",
	})
	require.NoError(t, err)

	turns, err := store.Transcript(ctx, "s1", "Payment Terms")
	require.NoError(t, err)
	require.Len(t, turns, 2)

	assert.Equal(t, session.RoleUser, turns[0].Role)
	assert.Equal(t, "Shorten the notice period.", turns[0].Content)
	assert.Equal(t, session.RoleAssistant, turns[1].Role)
}

func TestTranscriptIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTurn(ctx, "s1", "general", session.Turn{Role: session.RoleUser, Content: "hello"}))
	require.NoError(t, store.SaveTurn(ctx, "s1", "Delivery", session.Turn{Role: session.RoleUser, Content: "ship faster"}))
	require.NoError(t, store.SaveTurn(ctx, "s2", "general", session.Turn{Role: session.RoleUser, Content: "other session"}))

	turns, err := store.Transcript(ctx, "s1", "general")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "hello", turns[0].Content)

	turns, err = store.Transcript(ctx, "s1", "Delivery")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "ship faster", turns[0].Content)
}

func TestTranscriptEmpty(t *testing.T) {
	store := newTestStore(t)

	turns, err := store.Transcript(context.Background(), "missing", "general")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestTopics(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTurn(ctx, "s1", "general", session.Turn{Role: session.RoleUser, Content: "a"}))
	require.NoError(t, store.SaveTurn(ctx, "s1", "Payment Terms", session.Turn{Role: session.RoleUser, Content: "b"}))
	require.NoError(t, store.SaveTurn(ctx, "s1", "general", session.Turn{Role: session.RoleAssistant, Content: "c"}))

	topics, err := store.Topics(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Payment Terms", "general"}, topics)
}
