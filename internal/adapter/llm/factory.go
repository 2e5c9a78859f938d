package llm

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/xiaot623/gogo/guruchat/internal/config"
	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

const (
	// EnvGogoMode is the environment variable name for mode selection.
	EnvGogoMode = "GOGO_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewGenerator creates a Generator from configuration. GOGO_MODE=MOCK, a
// missing API key or an invalid configuration select the MockGenerator.
func NewGenerator(cfg *config.Config) Generator {
	if os.Getenv(EnvGogoMode) == ModeMock {
		log.Println("GOGO_MODE=MOCK detected, using mock generator")
		return WithTimeout(NewMockGenerator(), cfg.GenerationTimeout)
	}

	gen, err := NewOpenAIGenerator(OpenAIConfig{
		BaseURL:         cfg.OpenAIBaseURL,
		APIKey:          cfg.OpenAIAPIKey,
		DefaultModel:    cfg.DefaultModel,
		HotTemperature:  cfg.HotTemperature,
		ColdTemperature: cfg.ColdTemperature,
		MaxTokens:       cfg.MaxTokens,
	})
	if err != nil {
		log.Printf("WARN: %v; falling back to mock generator", err)
		return WithTimeout(NewMockGenerator(), cfg.GenerationTimeout)
	}
	return WithTimeout(gen, cfg.GenerationTimeout)
}

// WithTimeout bounds every generation by d. A non-positive d returns gen unchanged.
func WithTimeout(gen Generator, d time.Duration) Generator {
	if d <= 0 {
		return gen
	}
	return GeneratorFunc(func(ctx context.Context, req *domain.GenerationRequest, emit func(string), end func()) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return gen.Generate(ctx, req, emit, end)
	})
}
