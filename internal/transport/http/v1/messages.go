package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSessionMessages retrieves messages for a session.
// GET /api/sessions/chat/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	ctx := c.Request().Context()

	messages, err := h.service.GetMessages(ctx, c.Param("session_id"), userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}
