package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/guruchat/internal/adapter/llm"
	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/repository"
	"github.com/xiaot623/gogo/guruchat/internal/sse"
	"github.com/xiaot623/gogo/guruchat/tests/helpers"
)

func scenarioGenerator() llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, req *domain.GenerationRequest, emit func(string), end func()) (string, error) {
		switch req.Profile.Name {
		case "Alice":
			emit("Hi")
			emit(" there")
			end()
			return "Hi there", nil
		case "Bob":
			return "Hello to you too.", nil
		}
		return "", errors.New("unexpected character " + req.Profile.Name)
	})
}

func readFrames(t *testing.T, body string) []domain.StreamEvent {
	t.Helper()
	var events []domain.StreamEvent
	err := sse.Read(strings.NewReader(body), func(e sse.Event) error {
		ev, err := sse.Decode(e.Data)
		if err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	return events
}

func TestChat_StreamsFrames(t *testing.T) {
	e, db := newTestHandler(t, scenarioGenerator())
	helpers.SeedSession(t, db, "s1", "u1", "Alice", "Bob")

	rec := do(t, e, http.MethodPost, "/api/sessions/chat/s1/chat", "u1", `{"content":"Hello","style":"calm"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	assert.Equal(t,
		"data: {\"character_id\":\"alice\",\"name\":\"Alice\",\"content\":\"Hi\"}\n\n"+
			"data: {\"character_id\":\"alice\",\"name\":\"Alice\",\"content\":\" there\"}\n\n"+
			"data: {\"content\":\" \"}\n\n"+
			"data: {\"character_id\":\"bob\",\"name\":\"Bob\",\"content\":\"Hello to you too.\"}\n\n"+
			"data: {\"content\":\" \"}\n\n",
		rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/sessions/chat/s1/messages", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []domain.MessageInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 3)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "Hi there", messages[1].Content)
	assert.Equal(t, "Alice", messages[1].Character.Name)
	assert.Equal(t, "Hello to you too.", messages[2].Content)
}

func TestChat_MockGeneratorMarkers(t *testing.T) {
	e, db := newTestHandler(t, nil)
	helpers.SeedSession(t, db, "s1", "u1", "Alice", "Bob", "Carol")

	rec := do(t, e, http.MethodPost, "/api/sessions/chat/s1/chat", "u1", `{"content":"Hi all","style":"spicy"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	markers := 0
	for _, ev := range readFrames(t, rec.Body.String()) {
		if ev.IsTurnMarker() {
			markers++
		} else {
			assert.NotEmpty(t, ev.CharacterID)
		}
	}
	assert.Equal(t, 3, markers)
}

func TestChat_PreStreamErrors(t *testing.T) {
	e, db := newTestHandler(t, scenarioGenerator())
	helpers.SeedSession(t, db, "s1", "owner", "Alice")
	helpers.SeedSession(t, db, "empty", "owner")

	tests := []struct {
		name   string
		path   string
		user   string
		body   string
		status int
		code   domain.ErrorCode
	}{
		{"missing session", "/api/sessions/chat/nope/chat", "owner", `{"content":"Hello"}`, http.StatusNotFound, domain.ErrorCodeNotFound},
		{"not the owner", "/api/sessions/chat/s1/chat", "intruder", `{"content":"Hello"}`, http.StatusForbidden, domain.ErrorCodeForbidden},
		{"no characters", "/api/sessions/chat/empty/chat", "owner", `{"content":"Hello"}`, http.StatusBadRequest, domain.ErrorCodeBadRequest},
		{"empty content", "/api/sessions/chat/s1/chat", "owner", `{"content":""}`, http.StatusBadRequest, domain.ErrorCodeBadRequest},
		{"bad body", "/api/sessions/chat/s1/chat", "owner", `{"content":`, http.StatusBadRequest, domain.ErrorCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEqual(t, "text/event-stream", rec.Header().Get("Content-Type"))

			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}

	messages, err := db.GetMessages(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

// rejectingStore fails every message write.
type rejectingStore struct {
	repository.Store
}

func (s *rejectingStore) AppendMessage(ctx context.Context, msg *domain.Message) (int64, error) {
	return 0, errors.New("disk full")
}

func TestChat_UserMessagePersistFailure(t *testing.T) {
	db := helpers.NewTestSQLiteStore(t)
	helpers.SeedSession(t, db, "s1", "u1", "Alice")
	e := newTestHandlerWithStore(t, scenarioGenerator(), &rejectingStore{Store: db})

	rec := do(t, e, http.MethodPost, "/api/sessions/chat/s1/chat", "u1", `{"content":"Hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEqual(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrorCodeInternal, apiErr.Code)
	assert.NotContains(t, rec.Body.String(), "data:")
}

func TestChat_MockGeneratorMultiByte(t *testing.T) {
	e, db := newTestHandler(t, nil)
	helpers.SeedSession(t, db, "s1", "u1", "Alice")

	rec := do(t, e, http.MethodPost, "/api/sessions/chat/s1/chat", "u1", `{"content":"안녕하세요 여러분"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var streamed strings.Builder
	for _, ev := range readFrames(t, rec.Body.String()) {
		if !ev.IsTurnMarker() {
			streamed.WriteString(ev.Content)
		}
	}
	assert.NotContains(t, streamed.String(), "\uFFFD")

	messages, err := db.GetMessages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, messages[1].Content, streamed.String())
	assert.Contains(t, streamed.String(), "안녕하세요 여러분")
}

func TestGetSessionMessages_Errors(t *testing.T) {
	e, db := newTestHandler(t, nil)
	helpers.SeedSession(t, db, "s1", "owner", "Alice")

	rec := do(t, e, http.MethodGet, "/api/sessions/chat/s1/messages", "intruder", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/sessions/chat/missing/messages", "owner", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/sessions/chat/s1/messages", "owner", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestErrorStatus(t *testing.T) {
	status, code := ErrorStatus(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, domain.ErrorCodeInternal, code)

	status, body := NewAPIError(domain.ErrPersistUser)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", body.Message)
}
