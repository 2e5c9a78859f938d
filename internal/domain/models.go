package domain

import (
	"encoding/json"
	"time"
)

// Character is a stored response generator persona.
type Character struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	PersonaData json.RawMessage `json:"persona,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CharacterSummary is the public view of a character.
type CharacterSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Summary returns the public view of the character.
func (c *Character) Summary() CharacterSummary {
	return CharacterSummary{ID: c.ID, Name: c.Name, Description: c.Description}
}

// Session represents a conversation between one user and an ordered cast of characters.
type Session struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Title      string      `json:"title"`
	CreatedAt  time.Time   `json:"created_at"`
	Characters []Character `json:"-"`
}

// Message represents a single stored message in a session.
type Message struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CharacterID string    `json:"character_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Character is populated on reads when the message belongs to a character.
	Character *CharacterSummary `json:"-"`
}

// MessageInfo is the public view of a message.
type MessageInfo struct {
	ID        int64             `json:"id"`
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	Character *CharacterSummary `json:"character"`
}

// Info returns the public view of the message with its role resolved.
func (m *Message) Info() MessageInfo {
	return MessageInfo{
		ID:        m.ID,
		Role:      DeriveRole(m.Role, m.Character != nil || m.CharacterID != ""),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Character: m.Character,
	}
}

// SessionInfo is the public view of a session.
type SessionInfo struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Title      string             `json:"title"`
	CreatedAt  time.Time          `json:"created_at"`
	Characters []CharacterSummary `json:"characters"`
}

// Info returns the public view of the session.
func (s *Session) Info() SessionInfo {
	chars := make([]CharacterSummary, 0, len(s.Characters))
	for i := range s.Characters {
		chars = append(chars, s.Characters[i].Summary())
	}
	return SessionInfo{
		ID:         s.ID,
		UserID:     s.UserID,
		Title:      s.Title,
		CreatedAt:  s.CreatedAt,
		Characters: chars,
	}
}
