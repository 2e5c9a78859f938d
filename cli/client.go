package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/sse"
)

// Client is an HTTP and WebSocket client for the chat API.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewClient creates a new client.
func NewClient(baseURL, userID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", c.userID)
	return req, nil
}

// do sends the request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr domain.APIError
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Code == "" {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return &apiErr
}

// CreateSession creates a session for the client's user.
func (c *Client) CreateSession(ctx context.Context, characterIDs []string, title string) (*domain.CreateSessionResponse, error) {
	var resp domain.CreateSessionResponse
	err := c.do(ctx, http.MethodPost, "/api/sessions", domain.CreateSessionRequest{
		UserID:       c.userID,
		CharacterIDs: characterIDs,
		Title:        title,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSessions lists the client's sessions.
func (c *Client) ListSessions(ctx context.Context) ([]domain.SessionInfo, error) {
	var sessions []domain.SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession returns one session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*domain.SessionInfo, error) {
	var session domain.SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListCharacters lists the character catalog.
func (c *Client) ListCharacters(ctx context.Context) ([]domain.CharacterSummary, error) {
	var characters []domain.CharacterSummary
	if err := c.do(ctx, http.MethodGet, "/api/characters", nil, &characters); err != nil {
		return nil, err
	}
	return characters, nil
}

// Chat sends one chat turn and calls handler for every streamed record.
func (c *Client) Chat(ctx context.Context, sessionID string, chat domain.ChatRequest, handler func(domain.StreamEvent) error) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/sessions/chat/"+url.PathEscape(sessionID)+"/chat", chat)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	return sse.Read(resp.Body, func(e sse.Event) error {
		event, err := sse.Decode(e.Data)
		if err != nil {
			return err
		}
		return handler(event)
	})
}

// wsFrame is either a stream record or an error body.
type wsFrame struct {
	domain.StreamEvent
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// ChatWS sends one chat turn over WebSocket. The turn ends after one marker
// per character of the session.
func (c *Client) ChatWS(ctx context.Context, sessionID string, chat domain.ChatRequest, handler func(domain.StreamEvent) error) error {
	session, err := c.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/sessions/chat/" + url.PathEscape(sessionID) + "/ws"
	header := http.Header{}
	header.Set("X-User-ID", c.userID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode >= http.StatusBadRequest {
			return decodeAPIError(resp)
		}
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chat); err != nil {
		return fmt.Errorf("write chat request: %w", err)
	}

	markers := 0
	for markers < len(session.Characters) {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if frame.Code != "" {
			return &domain.APIError{Code: frame.Code, Message: frame.Message}
		}
		if frame.IsTurnMarker() {
			markers++
		}
		if err := handler(frame.StreamEvent); err != nil {
			return err
		}
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}
