// Package ws provides the WebSocket variant of the chat endpoint.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/guruchat/internal/config"
	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/service"
	v1 "github.com/xiaot623/gogo/guruchat/internal/transport/http/v1"
)

const (
	maxMessageSize = 64 * 1024
	sendBufferSize = 64
	maxQueuedTurns = 4

	defaultPingInterval = 30 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultReadTimeout  = 60 * time.Second
)

// Server handles WebSocket chat connections.
type Server struct {
	service  *service.Service
	upgrader websocket.Upgrader

	pingInterval time.Duration
	writeTimeout time.Duration
	readTimeout  time.Duration
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, svc *service.Service) *Server {
	s := &Server{
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		pingInterval: cfg.WSPingInterval,
		writeTimeout: cfg.WSWriteTimeout,
		readTimeout:  cfg.WSReadTimeout,
	}
	if s.pingInterval <= 0 {
		s.pingInterval = defaultPingInterval
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = defaultWriteTimeout
	}
	if s.readTimeout <= 0 {
		s.readTimeout = defaultReadTimeout
	}
	return s
}

// connection is one client socket bound to a session and a caller.
type connection struct {
	ws        *websocket.Conn
	send      chan []byte
	turns     chan domain.ChatRequest
	ctx       context.Context
	cancel    context.CancelFunc
	sessionID string
	userID    string
}

// sendJSON queues v for the writer. It fails once the connection is gone.
func (c *connection) sendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// HandleChat upgrades the request and serves chat turns until the client leaves.
// GET /api/sessions/chat/:session_id/ws
func (s *Server) HandleChat(c echo.Context) error {
	userID := c.Request().Header.Get(v1.HeaderUserID)
	if userID == "" {
		userID = c.QueryParam("user_id")
	}

	if err := s.service.AuthorizeChat(c.Request().Context(), c.Param("session_id"), userID); err != nil {
		status, apiErr := v1.NewAPIError(err)
		return c.JSON(status, apiErr)
	}

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("WARN: failed to upgrade WebSocket: %v", err)
		return nil
	}
	ws.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(context.Background())
	conn := &connection{
		ws:        ws,
		send:      make(chan []byte, sendBufferSize),
		turns:     make(chan domain.ChatRequest, maxQueuedTurns),
		ctx:       ctx,
		cancel:    cancel,
		sessionID: c.Param("session_id"),
		userID:    userID,
	}

	go s.writePump(conn)
	go s.turnLoop(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads chat requests from the WebSocket connection.
func (s *Server) readPump(conn *connection) {
	defer func() {
		conn.cancel()
		conn.ws.Close()
	}()

	conn.ws.SetReadDeadline(time.Now().Add(s.readTimeout))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(s.readTimeout))
		return nil
	})

	for {
		_, message, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WARN: WebSocket error: %v", err)
			}
			return
		}
		conn.ws.SetReadDeadline(time.Now().Add(s.readTimeout))

		s.handleMessage(conn, message)
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (s *Server) writePump(conn *connection) {
	ticker := time.NewTicker(s.pingInterval)
	defer func() {
		ticker.Stop()
		conn.cancel()
		conn.ws.Close()
	}()

	for {
		select {
		case message := <-conn.send:
			conn.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WARN: failed to write WebSocket message: %v", err)
				return
			}

		case <-ticker.C:
			conn.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-conn.ctx.Done():
			conn.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			conn.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage queues a chat turn. Turns of one connection run in order.
func (s *Server) handleMessage(conn *connection, data []byte) {
	var req domain.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError(conn, &domain.APIError{Code: domain.ErrorCodeBadRequest, Message: "invalid JSON message"})
		return
	}

	select {
	case conn.turns <- req:
	default:
		s.sendError(conn, &domain.APIError{Code: domain.ErrorCodeBadRequest, Message: "too many pending chat turns"})
	}
}

// turnLoop runs queued chat turns one at a time until the connection closes.
func (s *Server) turnLoop(conn *connection) {
	for {
		select {
		case req := <-conn.turns:
			s.runTurn(conn, req)
		case <-conn.ctx.Done():
			return
		}
	}
}

func (s *Server) runTurn(conn *connection, req domain.ChatRequest) {
	run, err := s.service.StartChat(conn.ctx, conn.sessionID, conn.userID, req)
	if err != nil {
		_, apiErr := v1.NewAPIError(err)
		s.sendError(conn, apiErr)
		return
	}

	if err := run.Stream(conn.ctx, func(event domain.StreamEvent) error {
		return conn.sendJSON(event)
	}); err != nil {
		log.Printf("WARN: WebSocket chat for session %s ended early: %v", conn.sessionID, err)
	}
}

func (s *Server) sendError(conn *connection, apiErr *domain.APIError) {
	if err := conn.sendJSON(apiErr); err != nil {
		log.Printf("WARN: failed to send WebSocket error: %v", err)
	}
}
