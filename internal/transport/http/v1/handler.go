// Package v1 provides the HTTP handlers of the chat API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/guruchat/internal/service"
)

// HeaderUserID carries the caller identity. It is trusted as given.
const HeaderUserID = "X-User-ID"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat
	e.POST("/api/sessions/chat/:session_id/chat", h.Chat)
	e.GET("/api/sessions/chat/:session_id/messages", h.GetSessionMessages)

	// Sessions
	e.POST("/api/sessions", h.CreateSession)
	e.GET("/api/sessions", h.ListSessions)
	e.GET("/api/sessions/:session_id", h.GetSession)
	e.PATCH("/api/sessions/:session_id/title", h.RenameSession)
	e.DELETE("/api/sessions/:session_id", h.DeleteSession)

	// Characters
	e.GET("/api/characters", h.ListCharacters)
	e.GET("/api/characters/:character_id", h.GetCharacter)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func userID(c echo.Context) string {
	return c.Request().Header.Get(HeaderUserID)
}
