package helpers

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/repository"
)

func NewTestSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// SeedSession stores one character per name (id = lowercased name) and a
// session owned by userID with those characters in order.
func SeedSession(t *testing.T, s repository.Store, sessionID, userID string, names ...string) *domain.Session {
	t.Helper()
	ctx := context.Background()

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id := strings.ToLower(name)
		if _, err := s.UpsertCharacter(ctx, &domain.Character{
			ID:          id,
			Name:        name,
			Description: name + " the character",
			PersonaData: json.RawMessage(`{"tone":"neutral"}`),
		}); err != nil {
			t.Fatalf("UpsertCharacter(%s) failed: %v", name, err)
		}
		ids = append(ids, id)
	}

	session := &domain.Session{ID: sessionID, UserID: userID, Title: "test", CreatedAt: time.Now()}
	if err := s.CreateSession(ctx, session, ids); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	got, err := s.GetSession(ctx, sessionID)
	if err != nil || got == nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	return got
}

