// Package http provides the HTTP server implementation for the chat service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/gogo/guruchat/internal/config"
	"github.com/xiaot623/gogo/guruchat/internal/service"
	v1 "github.com/xiaot623/gogo/guruchat/internal/transport/http/v1"
	"github.com/xiaot623/gogo/guruchat/internal/transport/ws"
)

// NewServer creates and configures the HTTP server with the REST, SSE and
// WebSocket chat routes.
func NewServer(cfg *config.Config, svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsServer := ws.NewServer(cfg, svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	e.GET("/api/sessions/chat/:session_id/ws", wsServer.HandleChat)

	return e
}
