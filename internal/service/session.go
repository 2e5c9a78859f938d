package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/policy"
)

// CreateSession creates a session owned by req.UserID with the given cast, in order.
func (s *Service) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.CreateSessionResponse, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidRequest)
	}
	if len(req.CharacterIDs) == 0 {
		return nil, fmt.Errorf("%w: character_ids is required", domain.ErrInvalidRequest)
	}

	seen := make(map[string]bool, len(req.CharacterIDs))
	summaries := make([]domain.CharacterSummary, 0, len(req.CharacterIDs))
	names := make([]string, 0, len(req.CharacterIDs))
	for _, id := range req.CharacterIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate character %q", domain.ErrInvalidRequest, id)
		}
		seen[id] = true

		character, err := s.store.GetCharacter(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get character: %w", err)
		}
		if character == nil {
			return nil, fmt.Errorf("%w: unknown character %q", domain.ErrInvalidRequest, id)
		}
		summaries = append(summaries, character.Summary())
		names = append(names, character.Name)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Chat with " + strings.Join(names, ", ")
	}

	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateSession(ctx, session, req.CharacterIDs); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.CreateSessionResponse{
		ID:         session.ID,
		UserID:     session.UserID,
		Title:      session.Title,
		CreatedAt:  session.CreatedAt,
		Characters: summaries,
	}, nil
}

// ListSessions returns the caller's sessions.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]domain.SessionInfo, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	infos := make([]domain.SessionInfo, 0, len(sessions))
	for i := range sessions {
		infos = append(infos, sessions[i].Info())
	}
	return infos, nil
}

// GetSession returns one session the caller may read.
func (s *Service) GetSession(ctx context.Context, sessionID, userID string) (*domain.SessionInfo, error) {
	session, err := s.authorizeSession(ctx, sessionID, userID, policy.ActionRead)
	if err != nil {
		return nil, err
	}
	info := session.Info()
	return &info, nil
}

// RenameSession changes the session title.
func (s *Service) RenameSession(ctx context.Context, sessionID, userID, title string) (*domain.SessionInfo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidRequest)
	}
	session, err := s.authorizeSession(ctx, sessionID, userID, policy.ActionRename)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateSessionTitle(ctx, session.ID, title); err != nil {
		return nil, fmt.Errorf("failed to update session title: %w", err)
	}
	session.Title = title
	info := session.Info()
	return &info, nil
}

// DeleteSession removes the session and its messages.
func (s *Service) DeleteSession(ctx context.Context, sessionID, userID string) error {
	session, err := s.authorizeSession(ctx, sessionID, userID, policy.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
