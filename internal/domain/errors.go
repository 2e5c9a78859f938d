package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrForbidden         = errors.New("not authorized to access this session")
	ErrNoCharacters      = errors.New("no characters in session")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrPersistUser       = errors.New("failed to save user message")
)

// APIError is the body of every non-streaming error response.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return string(e.Code) + ": " + e.Message
}
