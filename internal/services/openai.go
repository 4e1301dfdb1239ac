package services

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"
)

const DefaultOpenAIModel = "gpt-4.1-mini"

type OpenAIConfig struct {
	APIKey         string
	Model          string
	ConcurrentReqs int

	// BaseURL overrides the API endpoint, e.g. for a compatible gateway.
	BaseURL string
}

// OpenAIGenerator calls the Chat Completions API with a single user message.
type OpenAIGenerator struct {
	client openai.Client
	model  string
	slots  rateSlots
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []oaioption.RequestOption{
		oaioption.WithAPIKey(cfg.APIKey),
		oaioption.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, oaioption.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
		slots:  newRateSlots(cfg.ConcurrentReqs),
	}
}

func (g *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := g.slots.acquire(ctx); err != nil {
		return "", &GenerationError{Provider: "openai", Err: err}
	}
	defer g.slots.release()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", &GenerationError{Provider: "openai", Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &GenerationError{Provider: "openai", Err: errEmptyResponse}
	}
	return resp.Choices[0].Message.Content, nil
}
