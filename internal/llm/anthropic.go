package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"neurochat/internal/logger"
)

const anthropicDefaultMaxTokens = 1024

// AnthropicProvider has no frequency or presence penalty; those fields are ignored.
type AnthropicProvider struct {
	opts Options
}

func (p *AnthropicProvider) Name() string          { return "anthropic" }
func (p *AnthropicProvider) CredentialKey() string { return "ANTHROPIC_API_KEY" }
func (p *AnthropicProvider) DefaultModel() string  { return "claude-3-5-haiku-latest" }

func (p *AnthropicProvider) Complete(ctx context.Context, apiKey string, req Request) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(p.opts.MaxRetries),
	}
	if p.opts.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.opts.BaseURL))
	}
	if p.opts.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(p.opts.HTTPClient))
	}
	client := anthropic.NewClient(opts...)

	message, err := client.Messages.New(ctx, p.params(req))
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		content.WriteString(block.Text)
	}
	text := strings.TrimSpace(content.String())
	if text == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyCompletion)
	}
	logger.Debug("anthropic completion received", "model", req.Model, "content_length", len(text))
	return text, nil
}

func (p *AnthropicProvider) params(req Request) anthropic.MessageNewParams {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	return params
}
