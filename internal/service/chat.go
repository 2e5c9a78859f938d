package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/generation"
	"github.com/xiaot623/gogo/guruchat/internal/history"
	"github.com/xiaot623/gogo/guruchat/policy"
)

// RunState is the lifecycle state of a ChatRun.
type RunState string

const (
	RunStatePersistUser RunState = "persist_user"
	RunStateStreaming   RunState = "streaming"
	RunStateDone        RunState = "done"
	RunStateAborted     RunState = "aborted"
)

// ErrRunStarted is returned when Stream is called more than once.
var ErrRunStarted = errors.New("chat run already streamed")

// ChatRun is one accepted chat turn whose user message has been stored.
// Stream drives the characters in session order.
type ChatRun struct {
	svc         *Service
	session     *domain.Session
	userMessage string
	mode        domain.Mode
	model       string
	transcript  []domain.TranscriptEntry
	state       RunState
}

// AuthorizeChat checks that the session exists and that userID may chat in it.
func (s *Service) AuthorizeChat(ctx context.Context, sessionID, userID string) error {
	_, err := s.authorizeSession(ctx, sessionID, userID, policy.ActionChat)
	return err
}

// StartChat checks the preconditions of a chat turn and stores the user
// message. Any error returned here means no stream must be opened.
func (s *Service) StartChat(ctx context.Context, sessionID, userID string, req domain.ChatRequest) (*ChatRun, error) {
	session, err := s.authorizeSession(ctx, sessionID, userID, policy.ActionChat)
	if err != nil {
		return nil, err
	}
	if len(session.Characters) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoCharacters, session.ID)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidRequest)
	}

	if _, err := s.sink.Append(ctx, session.ID, req.Content, domain.RoleUser, ""); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistUser, err)
	}

	var transcript []domain.TranscriptEntry
	messages, err := s.store.GetMessages(ctx, session.ID)
	if err != nil {
		log.Printf("WARN: failed to load history for session %s: %v", session.ID, err)
		transcript = []domain.TranscriptEntry{{Role: domain.RoleUser, Speaker: domain.UserSpeaker, Content: req.Content}}
	} else {
		transcript = history.Build(messages)
	}

	model := req.Model
	if model == "" {
		model = s.config.DefaultModel
	}

	return &ChatRun{
		svc:         s,
		session:     session,
		userMessage: req.Content,
		mode:        domain.ModeFromStyle(req.Style),
		model:       model,
		transcript:  transcript,
		state:       RunStatePersistUser,
	}, nil
}

// Session returns the session the run belongs to.
func (r *ChatRun) Session() *domain.Session { return r.session }

// State returns the current lifecycle state.
func (r *ChatRun) State() RunState { return r.state }

// Transcript returns a copy of the in-memory transcript.
func (r *ChatRun) Transcript() []domain.TranscriptEntry { return history.Snapshot(r.transcript) }

// Stream generates one reply per character, in session order, passing every
// record to emit. Each character's turn ends with a turn marker. An emit
// error or a cancelled ctx aborts the run and is returned.
func (r *ChatRun) Stream(ctx context.Context, emit func(domain.StreamEvent) error) error {
	if r.state != RunStatePersistUser {
		return ErrRunStarted
	}
	r.state = RunStateStreaming

	for i := range r.session.Characters {
		character := &r.session.Characters[i]

		result, err := r.streamCharacter(ctx, character, emit)
		if err != nil {
			r.state = RunStateAborted
			return fmt.Errorf("stream aborted at character %s: %w", character.ID, err)
		}

		r.svc.sink.AppendAssistant(ctx, r.session.ID, result, character.ID)
		r.transcript = append(r.transcript, domain.TranscriptEntry{
			Role:    domain.RoleAssistant,
			Speaker: character.Name,
			Content: result,
		})
	}

	r.state = RunStateDone
	return nil
}

func (r *ChatRun) streamCharacter(ctx context.Context, character *domain.Character, emit func(domain.StreamEvent) error) (string, error) {
	req := &domain.GenerationRequest{
		UserMessage: r.userMessage,
		Mode:        r.mode,
		Model:       r.model,
		Profile:     character.Profile(),
		History:     history.Snapshot(r.transcript),
	}

	bridge := generation.Start(ctx, r.svc.generator, req, r.svc.config.StreamBufferSize)
	defer bridge.Close()

	chunk := func(text string) domain.StreamEvent {
		return domain.StreamEvent{CharacterID: character.ID, Name: character.Name, Content: text}
	}

	streamed := 0
	for {
		text, ok, err := bridge.Next(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		streamed++
		if err := emit(chunk(text)); err != nil {
			return "", err
		}
	}

	result, err := bridge.Result(ctx)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if bridge.Failed() {
		log.Printf("WARN: generation failed for character %s in session %s: %v", character.ID, r.session.ID, bridge.Err())
	}
	if streamed == 0 || bridge.Failed() {
		if err := emit(chunk(result)); err != nil {
			return "", err
		}
	}

	if err := emit(domain.TurnMarker()); err != nil {
		return "", err
	}
	return result, nil
}
