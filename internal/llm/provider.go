// Package llm adapts hosted chat-completion APIs to a single request shape.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrEmptyCompletion = errors.New("empty completion")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is one completion call. Zero sampling values are sent as given;
// providers that lack a parameter ignore it.
type Request struct {
	Model            string
	System           string
	Messages         []Message
	MaxTokens        int
	Temperature      float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Provider performs a completion with a caller-supplied API key. Keys are
// resolved per call so a key added while the server runs takes effect.
type Provider interface {
	Name() string
	// CredentialKey is the variable that holds this provider's API key.
	CredentialKey() string
	// DefaultModel is used when no model is configured.
	DefaultModel() string
	Complete(ctx context.Context, apiKey string, req Request) (string, error)
}

// Options apply to every provider. BaseURL points a client at a proxy or a
// test server.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int
}

// New returns the provider registered under name.
func New(name string, opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "openai":
		return &OpenAIProvider{opts: opts}, nil
	case "anthropic":
		return &AnthropicProvider{opts: opts}, nil
	case "gemini", "google":
		return &GeminiProvider{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
