// Package api provides HTTP handlers for the assistant backend.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cantorix/aide/service"
)

// Handler handles HTTP requests.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat/message", h.ChatMessage)
	e.DELETE("/chat/history/:session_id", h.ClearHistory)
	e.GET("/mcp/tools", h.ListTools)
	e.GET("/health", h.Health)
}

// Health returns liveness plus tool and cached-session counts.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"tools_count":      h.svc.ToolCount(),
		"context_sessions": h.svc.CachedSessions(),
	})
}
