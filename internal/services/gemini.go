package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-pro"

// TextGenerator sends one prompt to a language model and returns its text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var errEmptyResponse = errors.New("model returned an empty response")

// rateSlots is a token bucket bounding concurrent model calls.
type rateSlots chan struct{}

func newRateSlots(n int) rateSlots {
	if n <= 0 {
		n = 1
	}
	slots := make(rateSlots, n)
	for i := 0; i < n; i++ {
		slots <- struct{}{}
	}
	return slots
}

// acquire blocks until a rate slot is available
func (s rateSlots) acquire(ctx context.Context) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for model rate slot")
	}
}

func (s rateSlots) release() {
	s <- struct{}{}
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	ConcurrentReqs int
}

type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	slots  rateSlots
	logger *zap.Logger
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = DefaultGeminiModel
	}

	return &GeminiGenerator{
		client: client,
		model:  client.GenerativeModel(name),
		slots:  newRateSlots(cfg.ConcurrentReqs),
		logger: logger,
	}, nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := g.slots.acquire(ctx); err != nil {
		return "", &GenerationError{Provider: "gemini", Err: err}
	}
	defer g.slots.release()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Provider: "gemini", Err: err}
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			g.logger.Warn("gemini candidate did not finish normally",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
			)
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Provider: "gemini", Err: errEmptyResponse}
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
