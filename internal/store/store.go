// Package store persists policy documents and chat history in SQLite and
// supplies corpus snapshots to the retrieval core.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"policychat/internal/retrieval"
)

// Compile-time interface check.
var _ retrieval.DocumentSource = (*Store)(nil)

// Store wraps the SQLite database holding policy documents and chat history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the SQLite database at path and runs
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[Store] Database ready at %s", path)
	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma failed: %w", err)
		}
	}

	return RunMigrations(s.db)
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the underlying handle for tests and maintenance commands.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListDocuments returns the full policy corpus in insertion order. It
// implements retrieval.DocumentSource.
func (s *Store) ListDocuments(ctx context.Context) ([]retrieval.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, content FROM policy_documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []retrieval.Document
	for rows.Next() {
		var d retrieval.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// AddDocument inserts a policy document and returns its assigned id.
func (s *Store) AddDocument(ctx context.Context, title, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO policy_documents (title, content) VALUES (?, ?)", title, content)
	if err != nil {
		return 0, fmt.Errorf("add document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add document: %w", err)
	}
	return id, nil
}

// CountDocuments returns the number of stored policy documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM policy_documents").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Interaction is one logged question/answer exchange.
type Interaction struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogInteraction records a chat exchange and returns its id.
func (s *Store) LogInteraction(ctx context.Context, userMessage, botResponse string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_history (id, user_message, bot_response) VALUES (?, ?, ?)",
		id, userMessage, botResponse)
	if err != nil {
		return "", fmt.Errorf("log interaction: %w", err)
	}
	return id, nil
}

// RecentInteractions returns up to limit chat exchanges, newest first.
func (s *Store) RecentInteractions(ctx context.Context, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_message, bot_response, created_at FROM chat_history ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("recent interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var it Interaction
		if err := rows.Scan(&it.ID, &it.UserMessage, &it.BotResponse, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
