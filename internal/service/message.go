package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/policy"
)

// GetMessages returns the session's messages, oldest first, with roles resolved.
func (s *Service) GetMessages(ctx context.Context, sessionID, userID string) ([]domain.MessageInfo, error) {
	session, err := s.authorizeSession(ctx, sessionID, userID, policy.ActionRead)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.GetMessages(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	infos := make([]domain.MessageInfo, 0, len(messages))
	for i := range messages {
		infos = append(infos, messages[i].Info())
	}
	return infos, nil
}
