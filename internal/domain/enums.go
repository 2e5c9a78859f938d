// Package domain defines the core domain models for the chat orchestrator.
package domain

import "strings"

// Role represents who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserSpeaker is the speaker name used for messages written by the caller.
const UserSpeaker = "User"

// DeriveRole resolves the role of a stored message. A known stored role wins;
// otherwise a message tied to a character is an assistant message and
// everything else is a user message.
func DeriveRole(stored string, hasCharacter bool) Role {
	switch Role(strings.ToLower(strings.TrimSpace(stored))) {
	case RoleUser:
		return RoleUser
	case RoleAssistant:
		return RoleAssistant
	}
	if hasCharacter {
		return RoleAssistant
	}
	return RoleUser
}

// Mode selects the generation temperament.
type Mode string

const (
	ModeHot  Mode = "hot"
	ModeCold Mode = "cold"
)

// StyleSpicy is the request style that selects ModeHot.
const StyleSpicy = "spicy"

// ModeFromStyle maps the request style selector to a generation mode.
func ModeFromStyle(style string) Mode {
	if strings.EqualFold(strings.TrimSpace(style), StyleSpicy) {
		return ModeHot
	}
	return ModeCold
}

// ErrorCode is the category carried in pre-stream error responses.
type ErrorCode string

const (
	ErrorCodeNotFound   ErrorCode = "not_found"
	ErrorCodeForbidden  ErrorCode = "forbidden"
	ErrorCodeBadRequest ErrorCode = "bad_request"
	ErrorCodeInternal   ErrorCode = "internal"
)
