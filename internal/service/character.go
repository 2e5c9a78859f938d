package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// ListCharacters returns the summaries of all known characters.
func (s *Service) ListCharacters(ctx context.Context) ([]domain.CharacterSummary, error) {
	characters, err := s.store.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	summaries := make([]domain.CharacterSummary, 0, len(characters))
	for i := range characters {
		summaries = append(summaries, characters[i].Summary())
	}
	return summaries, nil
}

// GetCharacter returns one character with its persona.
func (s *Service) GetCharacter(ctx context.Context, characterID string) (*domain.Character, error) {
	character, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	if character == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCharacterNotFound, characterID)
	}
	return character, nil
}
