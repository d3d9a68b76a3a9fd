// Package domain defines the core domain models for the assistant backend.
package domain

import (
	"time"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Tool categories.
const (
	CategoryInformation = "information"
	CategoryUtility     = "utility"
	CategoryMemory      = "memory"
)

// Message represents a single message in a session's history.
type Message struct {
	SessionID string    `json:"session_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Memory represents a durably stored note associated with a session,
// outside the regular message history.
type Memory struct {
	SessionID  string    `json:"session_id"`
	MemoryType string    `json:"memory_type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToolInfo is the public description of a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ChatRequest is the body of POST /chat/message.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply for a chat turn.
type ChatResponse struct {
	Response   string      `json:"response"`
	SessionID  string      `json:"session_id"`
	ToolUsed   string      `json:"tool_used,omitempty"`
	ToolResult interface{} `json:"tool_result,omitempty"`
}
