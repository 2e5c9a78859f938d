// Package llm provides the generation backends that produce character replies.
package llm

import (
	"context"
	"errors"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// Generator produces one character's reply as a blocking call.
//
// Generate may call emit any number of times with incremental text and should
// call end once no more text will be emitted. It returns the full reply. The
// emitted text and the returned reply are expected, but not required, to
// match. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req *domain.GenerationRequest, emit func(text string), end func()) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req *domain.GenerationRequest, emit func(text string), end func()) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req *domain.GenerationRequest, emit func(text string), end func()) (string, error) {
	return f(ctx, req, emit, end)
}
