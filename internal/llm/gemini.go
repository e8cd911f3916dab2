package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"neurochat/internal/logger"
)

type GeminiProvider struct {
	opts Options
}

func (p *GeminiProvider) Name() string          { return "gemini" }
func (p *GeminiProvider) CredentialKey() string { return "GEMINI_API_KEY" }
func (p *GeminiProvider) DefaultModel() string  { return "gemini-2.0-flash" }

func (p *GeminiProvider) Complete(ctx context.Context, apiKey string, req Request) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.opts.BaseURL}
	}
	if p.opts.HTTPClient != nil {
		cfg.HTTPClient = p.opts.HTTPClient
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, req.Model, geminiContents(req.Messages), geminiConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(geminiText(result))
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyCompletion)
	}
	logger.Debug("gemini completion received", "model", req.Model, "content_length", len(text))
	return text, nil
}

// geminiContents maps assistant turns to the "model" role.
func geminiContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := string(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = string(genai.RoleModel)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}

func geminiConfig(req Request) *genai.GenerateContentConfig {
	temperature := float32(req.Temperature)
	frequency := float32(req.FrequencyPenalty)
	presence := float32(req.PresencePenalty)

	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		FrequencyPenalty: &frequency,
		PresencePenalty:  &presence,
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return cfg
}

func geminiText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text == "" || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
		// first candidate only
		break
	}
	return b.String()
}
