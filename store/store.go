// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/cantorix/aide/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Chat history operations
	AppendMessage(ctx context.Context, msg *domain.Message) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	DeleteHistory(ctx context.Context, sessionID string) error

	// Memory operations
	SaveMemory(ctx context.Context, mem *domain.Memory) error
	RecallMemories(ctx context.Context, sessionID, memoryType string, limit int) ([]domain.Memory, error)

	// Lifecycle
	Close() error
}
