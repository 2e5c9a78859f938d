package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// CreateSession creates a session.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req domain.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == "" {
		req.UserID = userID(c)
	}

	resp, err := h.service.CreateSession(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListSessions lists the caller's sessions.
// GET /api/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	sessions, err := h.service.ListSessions(c.Request().Context(), userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// GetSession returns one session.
// GET /api/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("session_id"), userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// RenameSession changes a session's title.
// PATCH /api/sessions/:session_id/title
func (h *Handler) RenameSession(c echo.Context) error {
	var req domain.PatchSessionTitleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	session, err := h.service.RenameSession(c.Request().Context(), c.Param("session_id"), userID(c), req.Title)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// DeleteSession deletes a session and its messages.
// DELETE /api/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	sessionID := c.Param("session_id")
	if err := h.service.DeleteSession(c.Request().Context(), sessionID, userID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, domain.DeleteSessionResponse{Status: "deleted", SessionID: sessionID})
}
