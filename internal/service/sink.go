package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/repository"
)

// Sink appends chat messages to the store.
type Sink struct {
	store repository.Store
}

// NewSink creates a Sink over store.
func NewSink(store repository.Store) *Sink {
	return &Sink{store: store}
}

// Append stores one message and returns its id.
func (k *Sink) Append(ctx context.Context, sessionID, content string, role domain.Role, characterID string) (int64, error) {
	id, err := k.store.AppendMessage(ctx, &domain.Message{
		SessionID:   sessionID,
		Role:        string(role),
		Content:     content,
		CharacterID: characterID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save %s message: %w", role, err)
	}
	return id, nil
}

// AppendAssistant stores a character's final reply. The write is detached
// from ctx cancellation and failures are only logged.
func (k *Sink) AppendAssistant(ctx context.Context, sessionID, content, characterID string) {
	if _, err := k.Append(context.WithoutCancel(ctx), sessionID, content, domain.RoleAssistant, characterID); err != nil {
		log.Printf("ERROR: failed to save assistant message for character %s in session %s: %v", characterID, sessionID, err)
	}
}
