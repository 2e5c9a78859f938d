package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/guruchat/internal/adapter/llm"
	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/tests/helpers"
)

func TestSessionLifecycle(t *testing.T) {
	store := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()
	for _, c := range []domain.Character{
		{ID: "sage", Name: "Sage", PersonaData: json.RawMessage(`{"tone":"calm"}`)},
		{ID: "rebel", Name: "Rebel"},
	} {
		c := c
		_, err := store.UpsertCharacter(ctx, &c)
		require.NoError(t, err)
	}
	svc := newTestService(t, store, llm.NewMockGenerator())

	created, err := svc.CreateSession(ctx, domain.CreateSessionRequest{UserID: "u1", CharacterIDs: []string{"rebel", "sage"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Chat with Rebel, Sage", created.Title)
	require.Len(t, created.Characters, 2)
	assert.Equal(t, "rebel", created.Characters[0].ID)

	got, err := svc.GetSession(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rebel", "sage"}, []string{got.Characters[0].ID, got.Characters[1].ID})

	_, err = svc.GetSession(ctx, created.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	renamed, err := svc.RenameSession(ctx, created.ID, "u1", "  Debate  ")
	require.NoError(t, err)
	assert.Equal(t, "Debate", renamed.Title)

	_, err = svc.RenameSession(ctx, created.ID, "u1", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	list, err := svc.ListSessions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Debate", list[0].Title)

	require.NoError(t, svc.DeleteSession(ctx, created.ID, "u1"))
	_, err = svc.GetSession(ctx, created.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCreateSession_Validation(t *testing.T) {
	store := helpers.NewTestSQLiteStore(t)
	helpers.SeedSession(t, store, "seed", "u1", "Alice")
	svc := newTestService(t, store, llm.NewMockGenerator())
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, domain.CreateSessionRequest{CharacterIDs: []string{"alice"}})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.CreateSession(ctx, domain.CreateSessionRequest{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.CreateSession(ctx, domain.CreateSessionRequest{UserID: "u1", CharacterIDs: []string{"alice", "ghost"}})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.CreateSession(ctx, domain.CreateSessionRequest{UserID: "u1", CharacterIDs: []string{"alice", "alice"}})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	created, err := svc.CreateSession(ctx, domain.CreateSessionRequest{UserID: "u1", CharacterIDs: []string{"alice"}, Title: "Mine"})
	require.NoError(t, err)
	assert.Equal(t, "Mine", created.Title)
}

func TestCharacters(t *testing.T) {
	store := helpers.NewTestSQLiteStore(t)
	helpers.SeedSession(t, store, "seed", "u1", "Alice", "Bob")
	svc := newTestService(t, store, llm.NewMockGenerator())
	ctx := context.Background()

	list, err := svc.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	c, err := svc.GetCharacter(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", c.Name)

	_, err = svc.GetCharacter(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}
