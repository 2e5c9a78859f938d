package llm

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// MockGenerator is a deterministic Generator for local runs and tests.
type MockGenerator struct {
	// ChunkSize is the number of runes per emitted chunk.
	ChunkSize int
}

// NewMockGenerator creates a new mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{ChunkSize: 10}
}

// Ensure MockGenerator implements Generator interface.
var _ Generator = (*MockGenerator)(nil)

// Generate streams a canned reply in fixed-size chunks.
func (m *MockGenerator) Generate(ctx context.Context, req *domain.GenerationRequest, emit func(string), end func()) (string, error) {
	defer end()

	responseContent := m.generateMockResponse(req)
	for _, chunk := range splitIntoChunks(responseContent, m.ChunkSize) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		emit(chunk)
	}
	return responseContent, nil
}

// generateMockResponse generates a mock response based on the request.
func (m *MockGenerator) generateMockResponse(req *domain.GenerationRequest) string {
	name := req.Profile.Name
	if name == "" {
		name = "Character"
	}
	if req.UserMessage == "" {
		return fmt.Sprintf("[MOCK %s/%s] This is a mock response.", name, req.Mode)
	}
	return fmt.Sprintf("[MOCK %s/%s] Received your message: %q after %d turns.",
		name, req.Mode, truncate(req.UserMessage, 100), len(req.History))
}

// splitIntoChunks splits a string into chunks of at most chunkSize runes.
func splitIntoChunks(s string, chunkSize int) []string {
	runes := []rune(s)
	if chunkSize <= 0 {
		chunkSize = len(runes)
	}
	var chunks []string
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// truncate shortens s to at most maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
