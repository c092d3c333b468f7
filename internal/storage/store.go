package storage

import (
	"context"

	"draftsmith/internal/session"
)

// TranscriptStore persists per-session conversation transcripts. The
// document text itself is deliberately never stored; its only durable form
// is the in-memory buffer and whatever the export boundary renders.
type TranscriptStore interface {
	// SaveTurn appends one conversation turn under a session and topic.
	SaveTurn(ctx context.Context, sessionID, topic string, turn session.Turn) error

	// Transcript returns the stored turns for a session and topic, oldest
	// first.
	Transcript(ctx context.Context, sessionID, topic string) ([]session.Turn, error)

	// Topics lists the distinct topics recorded for a session.
	Topics(ctx context.Context, sessionID string) ([]string, error)

	Close() error
}
