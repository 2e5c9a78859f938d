// Package repository defines the storage interface and its SQLite implementation.
package repository

import (
	"context"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session, characterIDs []string) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context, userID string) ([]domain.Session, error)
	UpdateSessionTitle(ctx context.Context, sessionID, title string) error
	DeleteSession(ctx context.Context, sessionID string) error

	// Message operations
	AppendMessage(ctx context.Context, message *domain.Message) (int64, error)
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Character operations
	UpsertCharacter(ctx context.Context, character *domain.Character) (created bool, err error)
	GetCharacter(ctx context.Context, characterID string) (*domain.Character, error)
	ListCharacters(ctx context.Context) ([]domain.Character, error)

	// Lifecycle
	Close() error
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
