// Package service implements the chat orchestrator and the session operations
// exposed by the transports.
package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/guruchat/internal/adapter/llm"
	"github.com/xiaot623/gogo/guruchat/internal/config"
	"github.com/xiaot623/gogo/guruchat/internal/domain"
	"github.com/xiaot623/gogo/guruchat/internal/repository"
	"github.com/xiaot623/gogo/guruchat/policy"
)

// Service holds the chat business logic shared by the HTTP and WebSocket transports.
type Service struct {
	store        repository.Store
	generator    llm.Generator
	sink         *Sink
	config       *config.Config
	policyEngine *policy.Engine
}

// New creates a Service. A nil policyEngine restricts every session to its owner.
func New(store repository.Store, generator llm.Generator, cfg *config.Config, policyEngine *policy.Engine) *Service {
	return &Service{
		store:        store,
		generator:    generator,
		sink:         NewSink(store),
		config:       cfg,
		policyEngine: policyEngine,
	}
}

// authorizeSession loads the session and checks that userID may perform action on it.
func (s *Service) authorizeSession(ctx context.Context, sessionID, userID, action string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	if s.policyEngine == nil {
		if userID == "" || userID != session.UserID {
			return nil, domain.ErrForbidden
		}
		return session, nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		UserID:      userID,
		OwnerUserID: session.UserID,
		Action:      action,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate session policy: %w", err)
	}
	if !allowed {
		return nil, domain.ErrForbidden
	}
	return session, nil
}
