package domain

import "time"

// ChatRequest is the body of a chat turn.
type ChatRequest struct {
	Content string `json:"content"`
	Style   string `json:"style"`
	Model   string `json:"model,omitempty"`
}

// CreateSessionRequest creates a session for a user with an ordered cast.
type CreateSessionRequest struct {
	UserID       string   `json:"user_id"`
	CharacterIDs []string `json:"character_ids"`
	Title        string   `json:"title,omitempty"`
}

// CreateSessionResponse is returned after creating a session.
type CreateSessionResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Title      string             `json:"title"`
	CreatedAt  time.Time          `json:"created_at"`
	Characters []CharacterSummary `json:"character_descriptions"`
}

// PatchSessionTitleRequest renames a session.
type PatchSessionTitleRequest struct {
	Title string `json:"title"`
}

// DeleteSessionResponse is returned after deleting a session.
type DeleteSessionResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}
