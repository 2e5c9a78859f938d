package domain

// TurnMarkerContent is the content of the frame that closes a character's turn.
const TurnMarkerContent = " "

// SystemErrorPrefix starts every result synthesized from a failed generation.
const SystemErrorPrefix = "System Error: "

// StreamEvent is one record on the outbound chat stream. Generation chunks
// carry the character identity; the turn marker carries only Content.
type StreamEvent struct {
	CharacterID string `json:"character_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Content     string `json:"content"`
}

// TurnMarker returns the event that signals the end of one character's turn.
func TurnMarker() StreamEvent {
	return StreamEvent{Content: TurnMarkerContent}
}

// IsTurnMarker reports whether the event closes a character's turn.
func (e StreamEvent) IsTurnMarker() bool {
	return e.CharacterID == "" && e.Name == "" && e.Content == TurnMarkerContent
}

// TranscriptEntry is one line of the in-memory conversation fed to generators.
type TranscriptEntry struct {
	Role    Role   `json:"role"`
	Speaker string `json:"speaker"`
	Content string `json:"content"`
}

// GenerationRequest is the immutable input of one character's generation.
type GenerationRequest struct {
	UserMessage string
	Mode        Mode
	Model       string
	Profile     CharacterProfile
	History     []TranscriptEntry
}
