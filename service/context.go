package service

import (
	"context"
	"log"
	"time"

	"github.com/cantorix/aide/domain"
)

// historyWindow is the number of persisted messages loaded into the cache.
const historyWindow = 50

// Context returns the conversation history for a session. A populated cache
// entry is the source of truth; on a miss the most recent persisted messages
// are loaded and cached. Storage failures are logged and yield an empty
// history, never an error.
func (s *Service) Context(ctx context.Context, sessionID string) []domain.Message {
	if msgs, ok := s.cache.Get(sessionID); ok {
		return msgs
	}

	if s.store == nil {
		return nil
	}

	msgs, err := s.store.RecentMessages(ctx, sessionID, historyWindow)
	if err != nil {
		log.Printf("ERROR: failed to load history for session %s: %v", sessionID, err)
		return nil
	}

	s.cache.Put(sessionID, msgs)
	return msgs
}

// Append adds a message to the session's cached history and best-effort
// persists it. Persistence failures are logged, not surfaced.
func (s *Service) Append(ctx context.Context, sessionID, role, content string) {
	msg := domain.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	s.cache.Append(sessionID, msg)

	if s.store == nil {
		return
	}
	if err := s.store.AppendMessage(ctx, &msg); err != nil {
		log.Printf("ERROR: failed to persist message for session %s: %v", sessionID, err)
	}
}

// ClearHistory drops the cached and persisted history for a session.
func (s *Service) ClearHistory(ctx context.Context, sessionID string) error {
	s.cache.Delete(sessionID)

	if s.store == nil {
		return nil
	}
	return s.store.DeleteHistory(ctx, sessionID)
}
