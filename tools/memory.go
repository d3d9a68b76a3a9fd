package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/cantorix/aide/domain"
	"github.com/cantorix/aide/store"
)

// recallLimit is the maximum number of memories returned per recall.
const recallLimit = 10

// MemoryTools implements the save/recall tools on top of the store.
// A nil store degrades every call to a structured error.
type MemoryTools struct {
	store store.Store
}

// NewMemoryTools creates memory tools backed by the given store.
func NewMemoryTools(s store.Store) *MemoryTools {
	return &MemoryTools{store: s}
}

// SaveResult is the structured result of save_memory.
type SaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RecallResult is the structured result of recall_memory.
type RecallResult struct {
	Success  bool            `json:"success"`
	Memories []domain.Memory `json:"memories"`
	Total    int             `json:"total"`
	Error    string          `json:"error,omitempty"`
}

// Save stores a memory record for a session.
func (m *MemoryTools) Save(ctx context.Context, sessionID, memoryType, content string) *SaveResult {
	if m.store == nil {
		return &SaveResult{Error: "database not configured"}
	}

	mem := &domain.Memory{
		SessionID:  sessionID,
		MemoryType: memoryType,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.store.SaveMemory(ctx, mem); err != nil {
		return &SaveResult{Error: err.Error()}
	}

	return &SaveResult{
		Success: true,
		Message: fmt.Sprintf("Memory saved: %s", memoryType),
	}
}

// Recall returns the most recent memories for a session, newest first,
// optionally filtered by type.
func (m *MemoryTools) Recall(ctx context.Context, sessionID, memoryType string) *RecallResult {
	if m.store == nil {
		return &RecallResult{Error: "database not configured"}
	}

	memories, err := m.store.RecallMemories(ctx, sessionID, memoryType, recallLimit)
	if err != nil {
		return &RecallResult{Error: err.Error()}
	}
	if memories == nil {
		memories = []domain.Memory{}
	}

	return &RecallResult{
		Success:  true,
		Memories: memories,
		Total:    len(memories),
	}
}
