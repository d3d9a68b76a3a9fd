package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cantorix/aide/domain"
)

// ChatMessage runs one chat turn.
// POST /chat/message
func (h *Handler) ChatMessage(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	resp, err := h.svc.Chat(ctx, &req)
	if err != nil {
		log.Printf("ERROR: chat turn failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, resp)
}

// ClearHistory clears cached and persisted history for a session.
// DELETE /chat/history/:session_id
func (h *Handler) ClearHistory(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if err := h.svc.ClearHistory(ctx, sessionID); err != nil {
		log.Printf("ERROR: failed to clear history for session %s: %v", sessionID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to clear history"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success", "message": "History cleared"})
}

// ListTools lists the registered tools.
// GET /mcp/tools
func (h *Handler) ListTools(c echo.Context) error {
	infos := h.svc.ListTools()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tools": infos,
		"total": len(infos),
	})
}
