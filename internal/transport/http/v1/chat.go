package v1

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/sse"
)

// Chat runs one chat turn and streams every character's reply.
// POST /api/sessions/chat/:session_id/chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	enc, err := sse.NewEncoder(c.Response())
	if err != nil {
		return writeError(c, err)
	}

	run, err := h.service.StartChat(ctx, sessionID, userID(c), req)
	if err != nil {
		return writeError(c, err)
	}

	sse.SetHeaders(c.Response().Header())
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	if err := run.Stream(ctx, func(event domain.StreamEvent) error {
		return enc.Encode(event)
	}); err != nil {
		// Headers are sent; the client sees a truncated stream.
		log.Printf("WARN: chat stream for session %s ended early: %v", sessionID, err)
	}
	return nil
}
