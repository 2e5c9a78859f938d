// Package history turns stored session messages into the transcript that
// generators receive as conversation context.
package history

import "github.com/xiaot623/gogo/guruchat/internal/domain"

// Build converts stored messages, oldest first, into transcript entries.
// It never fails: missing fields degrade to defaults.
func Build(messages []domain.Message) []domain.TranscriptEntry {
	transcript := make([]domain.TranscriptEntry, 0, len(messages))
	for i := range messages {
		transcript = append(transcript, Entry(&messages[i]))
	}
	return transcript
}

// Entry converts a single stored message.
func Entry(m *domain.Message) domain.TranscriptEntry {
	speaker := domain.UserSpeaker
	if m.Character != nil {
		speaker = m.Character.Name
	}
	return domain.TranscriptEntry{
		Role:    domain.DeriveRole(m.Role, m.Character != nil || m.CharacterID != ""),
		Speaker: speaker,
		Content: m.Content,
	}
}

// Snapshot returns a copy of the transcript that later appends cannot alias.
func Snapshot(transcript []domain.TranscriptEntry) []domain.TranscriptEntry {
	out := make([]domain.TranscriptEntry, len(transcript))
	copy(out, transcript)
	return out
}
