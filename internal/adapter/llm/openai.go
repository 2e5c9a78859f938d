package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/xiaot623/gogo/guruchat/internal/domain"
)

// OpenAIConfig configures the OpenAI-compatible generator.
type OpenAIConfig struct {
	// BaseURL points at any OpenAI-compatible endpoint (e.g. LiteLLM).
	// Empty uses the OpenAI default.
	BaseURL string
	APIKey  string

	// DefaultModel is used when the request carries no model.
	DefaultModel string

	HotTemperature  float64
	ColdTemperature float64
	MaxTokens       int
}

// OpenAIGenerator implements Generator with streaming chat completions.
type OpenAIGenerator struct {
	client openai.Client
	config OpenAIConfig
}

// Ensure OpenAIGenerator implements Generator interface.
var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates an OpenAI-backed generator.
func NewOpenAIGenerator(config OpenAIConfig) (*OpenAIGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY)", ErrInvalidConfig)
	}
	if config.DefaultModel == "" {
		return nil, fmt.Errorf("%w: missing default model", ErrInvalidConfig)
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// Generate streams the completion deltas through emit and returns the full text.
func (g *OpenAIGenerator) Generate(ctx context.Context, req *domain.GenerationRequest, emit func(string), end func()) (string, error) {
	defer end()

	stream := g.client.Chat.Completions.NewStreaming(ctx, g.params(req))
	defer stream.Close()

	var sb strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if s := chunk.Choices[0].Delta.Content; s != "" {
			sb.WriteString(s)
			emit(s)
		}
	}
	if err := stream.Err(); err != nil {
		return sb.String(), fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}
	return sb.String(), nil
}

func (g *OpenAIGenerator) params(req *domain.GenerationRequest) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = g.config.DefaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: BuildMessages(req),
	}

	temperature := g.config.ColdTemperature
	if req.Mode == domain.ModeHot {
		temperature = g.config.HotTemperature
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}
	if g.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(g.config.MaxTokens))
	}
	return params
}

// BuildMessages renders the generation request as a chat completion prompt.
// The character's own earlier lines become assistant messages; the user and
// the other characters are rendered as user messages prefixed by speaker.
func BuildMessages(req *domain.GenerationRequest) []openai.ChatCompletionMessageParamUnion {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(SystemPrompt(req.Profile, req.Mode)),
	}

	sawUserMessage := false
	for _, entry := range req.History {
		switch {
		case entry.Role == domain.RoleAssistant && entry.Speaker == req.Profile.Name:
			msgs = append(msgs, openai.AssistantMessage(entry.Content))
		default:
			msgs = append(msgs, openai.UserMessage(entry.Speaker+": "+entry.Content))
		}
		if entry.Role == domain.RoleUser && entry.Content == req.UserMessage {
			sawUserMessage = true
		}
	}
	if !sawUserMessage {
		msgs = append(msgs, openai.UserMessage(domain.UserSpeaker+": "+req.UserMessage))
	}
	return msgs
}

// SystemPrompt describes the persona and the temperament for the mode.
func SystemPrompt(profile domain.CharacterProfile, mode domain.Mode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, one of several characters in a group conversation with a user.\n", profile.Name)
	if profile.Description != "" {
		fmt.Fprintf(&sb, "%s\n", profile.Description)
	}

	keys := make([]string, 0, len(profile.Fields))
	for k := range profile.Fields {
		switch k {
		case "id", "name", "description":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		sb.WriteString("\nPersona:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "- %s: %v\n", k, profile.Fields[k])
		}
	}

	sb.WriteString("\n")
	if mode == domain.ModeHot {
		sb.WriteString("Answer with heat: be bold, opinionated and blunt, and push back on the others when you disagree.\n")
	} else {
		sb.WriteString("Answer coolly: be calm, concise and analytical.\n")
	}
	fmt.Fprintf(&sb, "Reply only as %s, without prefixing your name.", profile.Name)
	return sb.String()
}
