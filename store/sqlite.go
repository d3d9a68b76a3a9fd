package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cantorix/aide/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_history (
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS memories (
			session_id TEXT NOT NULL,
			memory_type TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_session ON memories(session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendMessage inserts a message into the chat history.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	return err
}

// RecentMessages returns the most recent messages for a session, oldest first.
func (s *SQLiteStore) RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	query := `SELECT session_id, role, content, created_at FROM chat_history
		WHERE session_id = ? ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows come back newest first; callers want insertion order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteHistory removes all persisted messages for a session.
func (s *SQLiteStore) DeleteHistory(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_history WHERE session_id = ?`, sessionID)
	return err
}

// SaveMemory inserts a memory record.
func (s *SQLiteStore) SaveMemory(ctx context.Context, mem *domain.Memory) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (session_id, memory_type, content, created_at) VALUES (?, ?, ?, ?)`,
		mem.SessionID, mem.MemoryType, mem.Content, mem.CreatedAt)
	return err
}

// RecallMemories returns the most recent memories for a session, newest first,
// optionally filtered by type.
func (s *SQLiteStore) RecallMemories(ctx context.Context, sessionID, memoryType string, limit int) ([]domain.Memory, error) {
	query := `SELECT session_id, memory_type, content, created_at FROM memories WHERE session_id = ?`
	args := []interface{}{sessionID}

	if memoryType != "" {
		query += ` AND memory_type = ?`
		args = append(args, memoryType)
	}

	query += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []domain.Memory
	for rows.Next() {
		var mem domain.Memory
		if err := rows.Scan(&mem.SessionID, &mem.MemoryType, &mem.Content, &mem.CreatedAt); err != nil {
			return nil, err
		}
		memories = append(memories, mem)
	}
	return memories, rows.Err()
}
