package vision

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/screendex/screendex/internal/errors"
)

// AnthropicConfig configures the Anthropic-backed vision client.
type AnthropicConfig struct {
	APIKey    string // falls back to ANTHROPIC_API_KEY
	Model     string
	MaxTokens int
}

// AnthropicClient implements Client over Anthropic's Claude models via
// langchaingo.
type AnthropicClient struct {
	llm       *anthropic.LLM
	maxTokens int
}

// NewAnthropicClient creates an Anthropic vision client.
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.NewInvalidRequest("anthropic API key is required (set ANTHROPIC_API_KEY)")
	}

	opts := []anthropic.Option{
		anthropic.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, errors.NewExternalCallFailure("create anthropic client", err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 300
	}

	return &AnthropicClient{llm: client, maxTokens: maxTokens}, nil
}

// Generate sends a multi-part message and returns the model's text output.
func (c *AnthropicClient) Generate(ctx context.Context, req Request) (string, error) {
	parts := make([]llms.ContentPart, 0, len(req.Images)+1)
	if req.Prompt != "" {
		parts = append(parts, llms.TextPart(req.Prompt))
	}
	for _, img := range req.Images {
		parts = append(parts, llms.BinaryPart(img.Kind, img.Data))
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		},
	}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithMaxTokens(c.maxTokens),
		llms.WithTemperature(0.3),
	)
	if err != nil {
		return "", errors.NewExternalCallFailure("vision model call", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
