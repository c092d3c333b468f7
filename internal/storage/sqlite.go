package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"draftsmith/internal/session"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a TranscriptStore backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite transcript database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session_topic ON turns(session_id, topic);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveTurn appends one turn, registering the session on first contact.
func (s *SQLiteStore) SaveTurn(ctx context.Context, sessionID, topic string, turn session.Turn) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, created_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sessionID, now); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO turns (session_id, topic, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, topic, turn.Role, turn.Content, now); err != nil {
		return err
	}

	return tx.Commit()
}

// Transcript returns the stored turns for one session and topic.
func (s *SQLiteStore) Transcript(ctx context.Context, sessionID, topic string) ([]session.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content FROM turns
		WHERE session_id = ? AND topic = ?
		ORDER BY id ASC
	`, sessionID, topic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []session.Turn
	for rows.Next() {
		var t session.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Topics lists the distinct topics recorded for a session.
func (s *SQLiteStore) Topics(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT topic FROM turns WHERE session_id = ? ORDER BY topic
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}
