// Package responder turns a user message plus recent history into the
// assistant's reply. It never fails: every error path yields a canned reply.
package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"neurochat/internal/llm"
	"neurochat/internal/logger"
	"neurochat/internal/metrics"
	"neurochat/internal/session"
)

const DefaultTimeout = 30 * time.Second

// KeyResolver is satisfied by *credentials.Resolver.
type KeyResolver interface {
	Resolve(key string) (value, source string, ok bool)
}

type Options struct {
	// Model overrides the provider default.
	Model   string
	Timeout time.Duration
	Metrics metrics.Recorder
}

type Responder struct {
	provider llm.Provider
	keys     KeyResolver
	model    string
	timeout  time.Duration
	metrics  metrics.Recorder
	now      func() time.Time
}

func New(provider llm.Provider, keys KeyResolver, opts Options) *Responder {
	r := &Responder{
		provider: provider,
		keys:     keys,
		model:    opts.Model,
		timeout:  opts.Timeout,
		metrics:  opts.Metrics,
		now:      time.Now,
	}
	if r.model == "" && provider != nil {
		r.model = provider.DefaultModel()
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.metrics == nil {
		r.metrics = metrics.Nop{}
	}
	return r
}

var providerLabels = map[string]string{
	"openai":    "OpenAI",
	"anthropic": "Anthropic",
	"gemini":    "Gemini",
}

// Generate returns the reply for userMessage. history is the decrypted
// conversation before userMessage.
func (r *Responder) Generate(ctx context.Context, mode session.Mode, userMessage string, history []session.Turn) string {
	profile := ProfileFor(mode)
	if r.provider == nil {
		r.metrics.RecordFallback(string(profile.Mode), "no_provider")
		return profile.Failure
	}

	keyName := r.provider.CredentialKey()
	apiKey, source, ok := r.keys.Resolve(keyName)
	if !ok {
		logger.Warn("no api key configured", "provider", r.provider.Name(), "key", keyName)
		r.metrics.RecordFallback(string(profile.Mode), "missing_credential")
		return r.missingCredential(profile, keyName)
	}

	req := r.request(profile, userMessage, history)
	logger.Debug("requesting completion",
		"provider", r.provider.Name(), "mode", profile.Mode, "messages", len(req.Messages), "key_source", source)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := r.now()
	reply, err := r.provider.Complete(ctx, apiKey, req)
	elapsed := r.now().Sub(started)
	reply = strings.TrimSpace(reply)
	if err != nil {
		logger.Error("completion failed", "provider", r.provider.Name(), "mode", profile.Mode, "err", err)
		r.metrics.RecordCompletion(r.provider.Name(), "error", elapsed)
		r.metrics.RecordFallback(string(profile.Mode), "provider_error")
		return profile.Failure
	}
	if reply == "" {
		r.metrics.RecordCompletion(r.provider.Name(), "empty", elapsed)
		r.metrics.RecordFallback(string(profile.Mode), "empty_completion")
		return profile.Failure
	}

	r.metrics.RecordCompletion(r.provider.Name(), "ok", elapsed)
	return reply
}

func (r *Responder) missingCredential(p Profile, keyName string) string {
	label, ok := providerLabels[r.provider.Name()]
	if !ok {
		label = r.provider.Name()
	}
	return fmt.Sprintf("%s (Note: %s API key not configured - please add %s to your environment variables)",
		p.MissingCredential, label, keyName)
}

// request builds persona + last Window prior turns + the new user turn.
func (r *Responder) request(p Profile, userMessage string, history []session.Turn) llm.Request {
	if len(history) > p.Window {
		history = history[len(history)-p.Window:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		switch t.Role {
		case session.RoleUser:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: t.Message})
		case session.RoleAI:
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: t.Message})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})

	return llm.Request{
		Model:            r.model,
		System:           p.Persona,
		Messages:         messages,
		MaxTokens:        p.MaxTokens,
		Temperature:      p.Temperature,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
	}
}
