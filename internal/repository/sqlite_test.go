package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedCharacters(t *testing.T, store *SQLiteStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if _, err := store.UpsertCharacter(context.Background(), &domain.Character{
			ID:          id,
			Name:        "Name-" + id,
			Description: "Desc-" + id,
			PersonaData: json.RawMessage(`{"tone":"warm"}`),
		}); err != nil {
			t.Fatalf("UpsertCharacter(%s) failed: %v", id, err)
		}
	}
}

func TestSQLiteStoreSessionCharacterOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedCharacters(t, store, "a", "b", "c")

	session := &domain.Session{ID: "s1", UserID: "u1", Title: "t", CreatedAt: time.Now()}
	if err := store.CreateSession(ctx, session, []string{"c", "a", "b"}); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil || got.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", got)
	}
	var order []string
	for _, c := range got.Characters {
		order = append(order, c.ID)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "a" || order[2] != "b" {
		t.Fatalf("unexpected character order: %v", order)
	}

	missing, err := store.GetSession(ctx, "nope")
	if err != nil {
		t.Fatalf("GetSession(missing) failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing session, got %+v", missing)
	}
}

func TestSQLiteStoreMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedCharacters(t, store, "a")

	if err := store.CreateSession(ctx, &domain.Session{ID: "s1", UserID: "u1", CreatedAt: time.Now()}, []string{"a"}); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	id1, err := store.AppendMessage(ctx, &domain.Message{SessionID: "s1", Role: "user", Content: "hello"})
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	id2, err := store.AppendMessage(ctx, &domain.Message{SessionID: "s1", Role: "assistant", Content: "hi", CharacterID: "a"})
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("expected increasing ids, got %d then %d", id1, id2)
	}

	messages, err := store.GetMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Character != nil || messages[0].Content != "hello" {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Character == nil || messages[1].Character.Name != "Name-a" {
		t.Fatalf("expected character on second message: %+v", messages[1])
	}
}

func TestSQLiteStoreUpsertCharacter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.UpsertCharacter(ctx, &domain.Character{ID: "g", Name: "Guru"})
	if err != nil || !created {
		t.Fatalf("expected insert, got created=%v err=%v", created, err)
	}
	created, err = store.UpsertCharacter(ctx, &domain.Character{ID: "g", Name: "Guru II", Description: "updated"})
	if err != nil || created {
		t.Fatalf("expected update, got created=%v err=%v", created, err)
	}

	got, err := store.GetCharacter(ctx, "g")
	if err != nil {
		t.Fatalf("GetCharacter failed: %v", err)
	}
	if got.Name != "Guru II" || got.Description != "updated" {
		t.Fatalf("unexpected character: %+v", got)
	}

	all, err := store.ListCharacters(ctx)
	if err != nil {
		t.Fatalf("ListCharacters failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 character, got %d", len(all))
	}
}

func TestSQLiteStoreSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedCharacters(t, store, "a")

	for _, id := range []string{"s1", "s2"} {
		if err := store.CreateSession(ctx, &domain.Session{ID: id, UserID: "u1", Title: id, CreatedAt: time.Now()}, []string{"a"}); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}
	if err := store.CreateSession(ctx, &domain.Session{ID: "other", UserID: "u2", CreatedAt: time.Now()}, nil); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sessions, err := store.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 || len(sessions[0].Characters) != 1 {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}

	if err := store.UpdateSessionTitle(ctx, "s1", "renamed"); err != nil {
		t.Fatalf("UpdateSessionTitle failed: %v", err)
	}
	got, _ := store.GetSession(ctx, "s1")
	if got.Title != "renamed" {
		t.Fatalf("expected renamed title, got %q", got.Title)
	}

	if _, err := store.AppendMessage(ctx, &domain.Message{SessionID: "s1", Role: "user", Content: "x"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if err := store.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	got, _ = store.GetSession(ctx, "s1")
	if got != nil {
		t.Fatalf("expected deleted session, got %+v", got)
	}
	messages, _ := store.GetMessages(ctx, "s1")
	if len(messages) != 0 {
		t.Fatalf("expected messages removed, got %d", len(messages))
	}
}
